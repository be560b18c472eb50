package respond

// ChapterRespond 章节响应
type ChapterRespond struct {
	ID        uint   `json:"id"`
	Order     int    `json:"order"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	CreatedAt string `json:"created_at"`
}
