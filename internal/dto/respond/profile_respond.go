package respond

// ProfileRespond 个人资料响应
// 使用位置:
//   - internal/service/user/service.go: GetProfile, UpdateProfile, Search
type ProfileRespond struct {
	Uuid         string   `json:"uuid"`
	Username     string   `json:"username"`
	DisplayName  string   `json:"display_name"`
	Bio          string   `json:"bio"`
	Image        string   `json:"image"`
	PublicSearch bool     `json:"public_search"`
	Tags         []string `json:"tags"`
}
