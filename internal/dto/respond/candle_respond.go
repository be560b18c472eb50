package respond

// CandleRespond 蜡烛响应
type CandleRespond struct {
	ID      uint   `json:"id"`
	LitBy   string `json:"lit_by"`
	LitAt   string `json:"lit_at"`
	Message string `json:"message"`
}
