package request

// SendDirectMessageRequest 发送私信请求
// 字段名 message 与前端约定一致
// 使用位置:
//   - internal/handler/dm_handler.go: SendMessage
//   - internal/service/dm/service.go: SendMessage
type SendDirectMessageRequest struct {
	Message string `form:"message" json:"message" binding:"required"`
}
