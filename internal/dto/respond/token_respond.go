package respond

// TokenRespond 刷新令牌响应
// 使用位置:
//   - internal/service/auth/service.go: RefreshToken
type TokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
