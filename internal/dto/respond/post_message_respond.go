package respond

// PostMessageRespond 频道发言成功响应
// created_at 为展示格式，created_at_iso 为机器可读格式
// 使用位置:
//   - internal/service/community/service.go: PostMessage
type PostMessageRespond struct {
	Status       string `json:"status"`
	ID           uint   `json:"id"`
	Author       string `json:"author"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
	CreatedAtIso string `json:"created_at_iso"`
}
