package respond

// RegisterRespond 用户注册响应
// 使用位置:
//   - internal/service/auth/service.go: Register
type RegisterRespond struct {
	Uuid      string `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
