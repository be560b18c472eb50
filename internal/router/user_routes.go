// Package router 提供 HTTP 路由注册
// 本文件定义用户资料相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户资料相关路由
// 读接口对匿名开放，本人访问时返回更多信息
// 搜索与本人资料更新放在独立前缀下，避免与 :uuid 通配路由冲突
func RegisterUserRoutes(r *gin.Engine) {
	userGroup := r.Group("/users")
	{
		// GET /users/:uuid - 个人主页聚合信息
		userGroup.GET("/:uuid", middleware.OptionalJWTAuth(), handler.GetProfileDetailHandler)
		// GET /users/:uuid/profile - 用户公开资料
		userGroup.GET("/:uuid/profile", handler.GetProfileHandler)
	}

	// GET /search/users - 搜索公开资料
	r.GET("/search/users", handler.SearchProfilesHandler)
	// PUT /profile - 更新本人资料
	r.PUT("/profile", middleware.JWTAuth(), handler.UpdateProfileHandler)
}
