// Package router 提供 HTTP 路由注册
// 本文件定义连载故事相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterTaleRoutes 注册故事相关路由
// 故事各项操作统一按 slug 寻址
func RegisterTaleRoutes(r *gin.Engine) {
	taleGroup := r.Group("/tales")
	{
		// GET /tales - 列出故事
		taleGroup.GET("", middleware.OptionalJWTAuth(), handler.ListTalesHandler)
		// POST /tales - 创建故事
		taleGroup.POST("", middleware.JWTAuth(), handler.CreateTaleHandler)
		// GET /tales/:slug - 故事详情（支持标题回退匹配）
		taleGroup.GET("/:slug", middleware.OptionalJWTAuth(), handler.GetTaleHandler)
		// DELETE /tales/:slug - 删除故事（仅作者）
		taleGroup.DELETE("/:slug", middleware.JWTAuth(), handler.DeleteTaleHandler)
		// POST /tales/:slug/chapters - 创建章节（仅作者）
		taleGroup.POST("/:slug/chapters", middleware.JWTAuth(), handler.CreateChapterHandler)
		// POST /tales/:slug/chapters/:chapter_id/publish - 发布草稿章节（仅作者）
		taleGroup.POST("/:slug/chapters/:chapter_id/publish", middleware.JWTAuth(), handler.PublishChapterHandler)
	}
}
