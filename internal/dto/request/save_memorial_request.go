package request

// SaveMemorialRequest 创建/更新纪念页请求
// 创建和更新共用同一表单
// 使用位置:
//   - internal/handler/memorial_handler.go: CreateMemorial, UpdateMemorial
//   - internal/service/memorial/service.go: Create, Update
type SaveMemorialRequest struct {
	Name          string `json:"name" binding:"required,max=120"`
	DateOfBirth   string `json:"date_of_birth"`   // 格式 2006-01-02，可为空
	DateOfPassing string `json:"date_of_passing"` // 格式 2006-01-02，可为空
	Biography     string `json:"biography"`
	Tribute       string `json:"tribute"`
	Image         string `json:"image"`

	// AI 生成相关，均为可选
	GenerateTribute bool   `json:"generate_tribute"` // 是否用 Groq 生成悼词
	Relationship    string `json:"relationship"`     // 与逝者的关系，悼词素材
	Memories        string `json:"memories"`         // 回忆片段，悼词素材
	GenerateImage   bool   `json:"generate_image"`   // 是否用 AI Horde 生成插画
	ImagePrompt     string `json:"image_prompt"`     // 插画描述
}
