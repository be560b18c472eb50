package request

// CreateTaleRequest 创建故事请求
// 使用位置:
//   - internal/handler/tale_handler.go: CreateTale
//   - internal/service/tale/service.go: Create
type CreateTaleRequest struct {
	Title       string `json:"title" binding:"required,max=160"`
	Subtitle    string `json:"subtitle" binding:"max=200"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"` // 缺省为公开
}
