package request

// RegisterRequest 用户注册请求
// 使用位置:
//   - internal/handler/auth_handler.go: Register
//   - internal/service/auth/service.go: Register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=40"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
