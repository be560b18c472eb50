package respond

// MemorialRespond 纪念页信息响应
// 使用位置:
//   - internal/service/memorial/service.go: Create, Update, List
type MemorialRespond struct {
	ID                 uint   `json:"id"`
	PublicId           string `json:"public_id"`
	Name               string `json:"name"`
	DateOfBirth        string `json:"date_of_birth"`
	DateOfPassing      string `json:"date_of_passing"`
	Biography          string `json:"biography"`
	Tribute            string `json:"tribute"`
	Image              string `json:"image"`
	IsAiGeneratedImage bool   `json:"is_ai_generated_image"`
	CreatorUuid        string `json:"creator_uuid"`
	CreatedAt          string `json:"created_at"`
}

// MemorialDetailRespond 纪念页详情聚合响应
// 使用位置:
//   - internal/service/memorial/service.go: GetDetail
type MemorialDetailRespond struct {
	Memorial  MemorialRespond          `json:"memorial"`
	Messages  []MemorialMessageRespond `json:"messages"`
	Candles   []CandleRespond          `json:"candles"`
	Reactions ReactionCounts           `json:"reactions"`
}
