package request

// CreateChannelRequest 创建频道请求
// 使用位置:
//   - internal/handler/community_handler.go: CreateChannel
//   - internal/service/community/service.go: CreateChannel
type CreateChannelRequest struct {
	Name     string `json:"name" binding:"required,max=80"`
	IsPublic *bool  `json:"is_public"`
}
