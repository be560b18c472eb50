package request

// LightCandleRequest 点蜡烛请求
// 使用位置:
//   - internal/handler/memorial_handler.go: LightCandle
type LightCandleRequest struct {
	LitBy   string `json:"lit_by" binding:"required,max=80"`
	Message string `json:"message" binding:"max=300"`
}
