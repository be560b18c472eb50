package respond

// CommunityRespond 社区信息响应
// Role 为当前请求者在该社区的角色，匿名或非成员为空
// 使用位置:
//   - internal/service/community/service.go: CreateCommunity, GetCommunity, ListCommunities
type CommunityRespond struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	OwnerUuid   string `json:"owner_uuid"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}
