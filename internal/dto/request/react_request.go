package request

// ReactRequest 表态切换请求
// 使用位置:
//   - internal/handler/reaction_handler.go: React
//   - internal/service/reaction/service.go: Toggle
type ReactRequest struct {
	Model    string `json:"model" binding:"required,oneof=memorial tale"`
	ID       uint   `json:"id" binding:"required"`
	Reaction string `json:"reaction" binding:"required,oneof=like love support"`
}
