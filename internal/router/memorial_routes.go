// Package router 提供 HTTP 路由注册
// 本文件定义纪念页相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterMemorialRoutes 注册纪念页相关路由
// 纪念页详情、访客留言和点蜡烛对匿名开放
func RegisterMemorialRoutes(r *gin.Engine) {
	memorialGroup := r.Group("/memorials")
	{
		// GET /memorials - 列出纪念页（mine=true 时仅本人）
		memorialGroup.GET("", middleware.OptionalJWTAuth(), handler.ListMemorialsHandler)
		// POST /memorials - 创建纪念页
		memorialGroup.POST("", middleware.JWTAuth(), handler.CreateMemorialHandler)
		// GET /memorials/:public_id - 纪念页详情
		memorialGroup.GET("/:public_id", handler.GetMemorialHandler)
		// PUT /memorials/:public_id - 更新纪念页（仅创建者）
		memorialGroup.PUT("/:public_id", middleware.JWTAuth(), handler.UpdateMemorialHandler)
		// DELETE /memorials/:public_id - 删除纪念页（仅创建者）
		memorialGroup.DELETE("/:public_id", middleware.JWTAuth(), handler.DeleteMemorialHandler)
		// POST /memorials/:public_id/messages - 访客留言
		memorialGroup.POST("/:public_id/messages", handler.PostMemorialMessageHandler)
		// POST /memorials/:public_id/candles - 点蜡烛
		memorialGroup.POST("/:public_id/candles", handler.LightCandleHandler)
		// GET /memorials/:public_id/image-job - 查询插画生成任务状态
		memorialGroup.GET("/:public_id/image-job", handler.GetImageJobStatusHandler)
	}
}
