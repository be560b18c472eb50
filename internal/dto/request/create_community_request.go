package request

// CreateCommunityRequest 创建社区请求
// 使用位置:
//   - internal/handler/community_handler.go: CreateCommunity
//   - internal/service/community/service.go: CreateCommunity
type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required,max=80"`
	Description string `json:"description" binding:"max=500"`
	IsPublic    *bool  `json:"is_public"` // 缺省为公开
}
