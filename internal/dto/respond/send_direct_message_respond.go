package respond

// SendDirectMessageRespond 私信发送成功响应
// 使用位置:
//   - internal/service/dm/service.go: SendMessage
type SendDirectMessageRespond struct {
	Status       string `json:"status"`
	ID           uint   `json:"id"`
	Message      string `json:"message"`
	Sender       string `json:"sender"`
	CreatedAt    string `json:"created_at"`
	CreatedAtIso string `json:"created_at_iso"`
}
