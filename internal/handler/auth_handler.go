// Package handler 提供 HTTP 请求处理器
// 本文件处理注册、登录、令牌刷新与登出
package handler

import (
	"eternal_memories_server/internal/dto/request"
	"eternal_memories_server/internal/infrastructure/middleware"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// RegisterHandler 用户注册
// POST /auth/register
// 请求体: request.RegisterRequest
func RegisterHandler(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Auth.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoginHandler 密码登录，签发双 Token
// POST /auth/login
// 请求体: request.LoginRequest
func LoginHandler(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Auth.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RefreshTokenHandler 刷新 Access Token
// POST /auth/refresh
// 请求体: request.RefreshTokenRequest
//
// 单点互踢机制:
//   - 用户登录时会在 Redis 中存储 Token ID
//   - 如果用户在其他设备登录，会覆盖旧的 Token ID
//   - 使用旧 Token ID 刷新时会被拒绝
func RefreshTokenHandler(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := service.Svc.Auth.RefreshToken(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LogoutHandler 登出，吊销 Refresh Token
// POST /auth/logout
func LogoutHandler(c *gin.Context) {
	userUuid, ok := middleware.GetUserID(c)
	if !ok {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	if err := service.Svc.Auth.Logout(userUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
