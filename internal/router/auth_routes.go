// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
// 注册、登录、刷新无需携带 Token，登出需要
func RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		// POST /auth/register - 用户注册
		authGroup.POST("/register", handler.RegisterHandler)
		// POST /auth/login - 密码登录，签发双 Token
		authGroup.POST("/login", handler.LoginHandler)
		// POST /auth/refresh - 刷新 Access Token
		// 使用 Refresh Token 换取新的双 Token
		authGroup.POST("/refresh", handler.RefreshTokenHandler)
		// POST /auth/logout - 登出，吊销 Refresh Token
		authGroup.POST("/logout", middleware.JWTAuth(), handler.LogoutHandler)
	}
}
