package respond

// MemorialMessageRespond 纪念页访客留言响应
type MemorialMessageRespond struct {
	ID         uint   `json:"id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}
