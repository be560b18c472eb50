// Package router 提供 HTTP 路由注册
// 本文件定义表态相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterReactionRoutes 注册表态相关路由
func RegisterReactionRoutes(r *gin.Engine) {
	// POST /react - 切换纪念页或故事的表态
	// 裸响应约定同私信接口
	r.POST("/react", middleware.OptionalJWTAuth(), handler.ReactHandler)
}
