package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	myconfig "eternal_memories_server/internal/config"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/infrastructure/ai"
	"eternal_memories_server/pkg/errorx"
)

// kafkaImageQueue 基于 Kafka 的图片任务队列
// 请求侧写入任务主题，后台消费协程逐条执行
type kafkaImageQueue struct {
	writer *kafka.Writer
	reader *kafka.Reader
	worker *imageJobWorker
	cancel context.CancelFunc
}

// NewKafkaImageQueue 创建 Kafka 图片任务队列并启动消费协程
func NewKafkaImageQueue(images ai.ImageService, cache myredis.AsyncCacheService) ImageJobQueue {
	kafkaConfig := myconfig.GetConfig().KafkaConfig

	q := &kafkaImageQueue{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.ImageJobTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout * time.Second,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.ImageJobTopic,
			CommitInterval: kafkaConfig.Timeout * time.Second,
			GroupID:        "image_job",
			StartOffset:    kafka.LastOffset,
		}),
		worker: &imageJobWorker{images: images, cache: cache},
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	go q.consume(ctx)

	return q
}

// CreateImageJobTopic 创建图片任务主题
// 主题已存在时 Kafka 返回幂等结果，不视为错误
func CreateImageJobTopic() error {
	kafkaConfig := myconfig.GetConfig().KafkaConfig

	conn, err := kafka.Dial("tcp", kafkaConfig.HostPort)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "kafka dial")
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             kafkaConfig.ImageJobTopic,
		NumPartitions:     kafkaConfig.Partition,
		ReplicationFactor: 1,
	})
}

// Enqueue 投递任务到 Kafka
func (q *kafkaImageQueue) Enqueue(ctx context.Context, job ImageJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "image job marshal")
	}
	key := []byte(strconv.FormatUint(uint64(job.MemorialID), 10))
	if err := q.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "image job enqueue")
	}
	return nil
}

// consume 消费循环
func (q *kafkaImageQueue) consume(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("图片任务消费协程 panic", zap.Any("recover", r))
			go q.consume(ctx) // 重启
		}
	}()

	for {
		kafkaMessage, err := q.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return // 队列已关闭
			}
			zap.L().Error("图片任务读取失败", zap.Error(err))
			continue
		}

		var job ImageJob
		if err := json.Unmarshal(kafkaMessage.Value, &job); err != nil {
			zap.L().Error("图片任务反序列化失败",
				zap.Int64("offset", kafkaMessage.Offset), zap.Error(err))
			continue
		}

		zap.L().Info("图片任务已接收",
			zap.String("topic", kafkaMessage.Topic),
			zap.Int64("offset", kafkaMessage.Offset),
			zap.Uint("memorial_id", job.MemorialID))
		q.worker.process(ctx, job)
	}
}

// Close 关闭队列
func (q *kafkaImageQueue) Close() error {
	q.cancel()
	if err := q.writer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	return q.reader.Close()
}
