package request

// CreateChapterRequest 创建章节请求
// 使用位置:
//   - internal/handler/tale_handler.go: CreateChapter
//   - internal/service/tale/service.go: CreateChapter
type CreateChapterRequest struct {
	Title     string `json:"title" binding:"required,max=160"`
	Content   string `json:"content" binding:"required"`
	Order     *int   `json:"order"`     // 缺省时自动排在末尾
	Published *bool  `json:"published"` // 缺省为已发布
}
