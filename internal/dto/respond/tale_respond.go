package respond

// TaleRespond 故事信息响应
// 使用位置:
//   - internal/service/tale/service.go: Create, List, GetDetail
type TaleRespond struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	AuthorUuid  string `json:"author_uuid"`
	CreatedAt   string `json:"created_at"`
}

// TaleDetailRespond 故事详情聚合响应
type TaleDetailRespond struct {
	Tale      TaleRespond      `json:"tale"`
	Chapters  []ChapterRespond `json:"chapters"`
	Reactions ReactionCounts   `json:"reactions"`
}
