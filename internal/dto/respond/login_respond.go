package respond

// LoginRespond 用户登录响应
// 使用位置:
//   - internal/service/auth/service.go: Login
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Image        string `json:"image"`
	IsAdmin      int8   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
