package respond

// ChannelRespond 频道信息响应
// 使用位置:
//   - internal/service/community/service.go: CreateChannel, ListChannels
type ChannelRespond struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsPublic bool   `json:"is_public"`
}
