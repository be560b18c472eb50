// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDMRoutes 注册私信相关路由
// 私信接口全部需要登录；轮询脚本约定裸响应，
// 未登录的 401 由 Handler 按裸格式返回，因此挂载可选认证中间件
func RegisterDMRoutes(r *gin.Engine) {
	messageGroup := r.Group("/messages", middleware.OptionalJWTAuth())
	{
		// GET /messages/:username - 拉取与某用户的会话（支持 since 增量）
		messageGroup.GET("/:username", handler.DirectMessageFeedHandler)
		// POST /messages/:username - 发送私信
		messageGroup.POST("/:username", handler.SendDirectMessageHandler)
	}
}
