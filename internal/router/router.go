// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
// 在 http_server.Init() 中调用
// 按模块分别注册各个路由组
func RegisterRoutes(r *gin.Engine) {
	RegisterAuthRoutes(r)      // 认证路由（注册 / 登录 / Token 刷新）
	RegisterUserRoutes(r)      // 用户资料路由
	RegisterCommunityRoutes(r) // 社区与频道路由
	RegisterDMRoutes(r)        // 私信路由
	RegisterReactionRoutes(r)  // 表态路由
	RegisterMemorialRoutes(r)  // 纪念页路由
	RegisterTaleRoutes(r)      // 故事路由
}
