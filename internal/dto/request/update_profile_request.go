package request

// UpdateProfileRequest 更新个人资料请求
// 使用位置:
//   - internal/handler/user_handler.go: UpdateProfile
//   - internal/service/user/service.go: UpdateProfile
type UpdateProfileRequest struct {
	DisplayName  string `json:"display_name" binding:"max=80"`
	Bio          string `json:"bio" binding:"max=500"`
	Image        string `json:"image"`
	PublicSearch *bool  `json:"public_search"` // 指针区分"未提交"和"设为 false"
	Tags         string `json:"tags" binding:"max=200"`
}
