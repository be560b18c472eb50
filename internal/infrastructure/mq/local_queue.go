package mq

import (
	"context"

	"go.uber.org/zap"

	myconfig "eternal_memories_server/internal/config"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/infrastructure/ai"
)

// localImageQueue 基于本地协程的图片任务队列
// Kafka 未启用时使用，单机部署下足够支撑图片生成频率
type localImageQueue struct {
	jobs   chan ImageJob
	worker *imageJobWorker
	cancel context.CancelFunc
}

// NewLocalImageQueue 创建本地图片任务队列并启动消费协程
func NewLocalImageQueue(images ai.ImageService, cache myredis.AsyncCacheService) ImageJobQueue {
	q := &localImageQueue{
		jobs:   make(chan ImageJob, 64),
		worker: &imageJobWorker{images: images, cache: cache},
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	go q.consume(ctx)

	return q
}

// Enqueue 投递任务到本地通道
// 通道满时丢弃任务并记录日志，避免阻塞创建纪念页的请求
func (q *localImageQueue) Enqueue(ctx context.Context, job ImageJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		zap.L().Warn("本地图片任务队列已满，任务被丢弃", zap.Uint("memorial_id", job.MemorialID))
		q.worker.setStatus(job.MemorialID, JobStatusFailed)
		return nil
	}
}

// consume 消费循环
func (q *localImageQueue) consume(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("本地图片任务协程 panic", zap.Any("recover", r))
			go q.consume(ctx) // 重启
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.worker.process(ctx, job)
		}
	}
}

// Close 关闭队列
func (q *localImageQueue) Close() error {
	q.cancel()
	return nil
}

// Init 按配置初始化图片任务队列并注入全局实例
// Kafka 启用时走消息队列，否则退化为本地协程
func Init(images ai.ImageService, cache myredis.AsyncCacheService) error {
	if myconfig.GetConfig().KafkaConfig.Enabled {
		if err := CreateImageJobTopic(); err != nil {
			zap.L().Warn("图片任务主题创建失败，继续使用已有主题", zap.Error(err))
		}
		SetImageJobQueue(NewKafkaImageQueue(images, cache))
		zap.L().Info("图片任务队列已启用 Kafka 模式")
		return nil
	}
	SetImageJobQueue(NewLocalImageQueue(images, cache))
	zap.L().Info("图片任务队列已启用本地模式")
	return nil
}
