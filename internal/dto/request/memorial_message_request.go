package request

// MemorialMessageRequest 纪念页访客留言请求
// 访客无需登录，姓名必填
// 使用位置:
//   - internal/handler/memorial_handler.go: PostMessage
type MemorialMessageRequest struct {
	AuthorName  string `json:"author_name" binding:"required,max=80"`
	AuthorEmail string `json:"author_email" binding:"omitempty,email"`
	Content     string `json:"content" binding:"required"`
}
