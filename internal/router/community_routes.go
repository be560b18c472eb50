// Package router 提供 HTTP 路由注册
// 本文件定义社区、频道与频道消息流相关的路由
package router

import (
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCommunityRoutes 注册社区相关路由
// 读接口对匿名开放（私有社区除外），写接口需要登录
func RegisterCommunityRoutes(r *gin.Engine) {
	communityGroup := r.Group("/communities")
	{
		// GET /communities - 列出社区
		communityGroup.GET("", middleware.OptionalJWTAuth(), handler.ListCommunitiesHandler)
		// POST /communities - 创建社区
		communityGroup.POST("", middleware.JWTAuth(), handler.CreateCommunityHandler)
		// GET /communities/:slug - 社区详情
		communityGroup.GET("/:slug", middleware.OptionalJWTAuth(), handler.GetCommunityHandler)
		// POST /communities/:slug/join - 加入社区
		communityGroup.POST("/:slug/join", middleware.JWTAuth(), handler.JoinCommunityHandler)
		// POST /communities/:slug/leave - 退出社区
		communityGroup.POST("/:slug/leave", middleware.JWTAuth(), handler.LeaveCommunityHandler)
		// GET /communities/:slug/channels - 列出频道
		communityGroup.GET("/:slug/channels", middleware.OptionalJWTAuth(), handler.ListChannelsHandler)
		// POST /communities/:slug/channels - 创建频道（owner/admin）
		communityGroup.POST("/:slug/channels", middleware.JWTAuth(), handler.CreateChannelHandler)
		// GET /communities/:slug/channels/:channel/messages - 拉取消息流（支持 since 增量）
		communityGroup.GET("/:slug/channels/:channel/messages", middleware.OptionalJWTAuth(), handler.CommunityFeedHandler)
		// POST /communities/:slug/channels/:channel/messages - 频道发言
		// 轮询脚本约定裸响应，未登录的 401 也由 Handler 按裸格式返回
		communityGroup.POST("/:slug/channels/:channel/messages", middleware.OptionalJWTAuth(), handler.PostCommunityMessageHandler)
	}
}
