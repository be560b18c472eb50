// Package http_server 提供 HTTP 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package http_server

import (
	"net/http"

	"eternal_memories_server/internal/config"                // 配置管理
	"eternal_memories_server/internal/infrastructure/logger" // 自定义日志中间件
	"eternal_memories_server/internal/router"                // 路由注册

	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架
)

// GE 全局 Gin 引擎实例，main 中用于启动服务
var GE *gin.Engine

// Init 初始化 HTTP 服务器
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 映射静态资源目录
//  5. 注册业务路由
func Init() {
	// 创建空白 Gin 引擎（不使用 gin.Default() 以便完全控制中间件）
	engine := gin.New()

	// 注册自定义 Zap 日志中间件，替代 Gin 默认的日志
	// GinLogger: 记录每个请求的详细信息（路径、状态码、耗时等）
	engine.Use(logger.GinLogger())

	// 注册 Panic 恢复中间件，捕获 panic 并记录堆栈
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	// 配置 CORS 跨域规则
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 允许所有来源（生产环境应指定具体域名）
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 方法不匹配时返回 405 而不是 404
	// 前端轮询脚本依赖这一语义区分接口是否存在
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"status": "error",
			"error":  "Method not allowed",
		})
	})

	// 映射静态资源目录
	// /static/images -> 纪念页图片目录（含 AI 生成插画）
	engine.Static("/static/images", config.GetConfig().StaticImagePath)
	// /static/profiles -> 用户头像目录
	engine.Static("/static/profiles", config.GetConfig().StaticProfilePath)

	// 注册所有业务路由
	router.RegisterRoutes(engine)

	GE = engine
}
