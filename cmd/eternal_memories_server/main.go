package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"eternal_memories_server/internal/config"
	dao "eternal_memories_server/internal/dao/mysql"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/handler"
	"eternal_memories_server/internal/http_server"
	"eternal_memories_server/internal/infrastructure/ai"
	"eternal_memories_server/internal/infrastructure/logger"
	"eternal_memories_server/internal/infrastructure/mq"
	"eternal_memories_server/internal/service"
	"eternal_memories_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化参数校验翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}
	zap.L().Info("翻译器初始化成功")

	// 4. 初始化数据库
	dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 7. 初始化 AI 服务（悼词生成 + 插画生成）
	tributes := ai.NewTributeService()
	images := ai.NewImageService()
	zap.L().Info("AI 服务初始化成功")

	// 8. 初始化插画任务队列
	// Kafka 启用时走消息队列，否则退化为本地 goroutine 队列
	if err := mq.Init(images, myredis.GetCacheService()); err != nil {
		zap.L().Fatal("插画任务队列初始化失败", zap.Error(err))
	}
	zap.L().Info("插画任务队列初始化成功")

	// 9. 初始化 Service 层 (依赖注入)
	service.InitServices(dao.Repos, myredis.GetCacheService(), tributes, mq.GetImageJobQueue())
	zap.L().Info("Service 层初始化成功")

	// 10. 初始化 HTTP 服务器
	http_server.Init()
	zap.L().Info("HTTP 服务器初始化成功")

	// 11. 启动服务
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	go func() {
		if err := http_server.GE.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault")
			return
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")

	// 关闭任务队列（Kafka 模式下停止消费协程）
	if queue := mq.GetImageJobQueue(); queue != nil {
		if err := queue.Close(); err != nil {
			zap.L().Error("任务队列关闭失败", zap.Error(err))
		}
	}

	zap.L().Info("服务器已关闭")
}
