package request

// PostMessageRequest 频道发言请求
// 同时支持表单提交和 JSON 提交
// 使用位置:
//   - internal/handler/community_handler.go: PostMessage
//   - internal/service/community/service.go: PostMessage
type PostMessageRequest struct {
	Content string `form:"content" json:"content" binding:"required"`
}
