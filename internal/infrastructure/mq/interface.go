// Package mq 提供 AI 图片生成任务队列
// 请求侧投递任务后立即返回，后台 Worker 消费任务并回写纪念页
package mq

import "context"

// ImageJob AI 图片生成任务
// 由创建/更新纪念页的请求投递，Worker 消费后调用 AI Horde 生成插画
type ImageJob struct {
	MemorialID uint   `json:"memorial_id"` // 目标纪念页 ID
	Name       string `json:"name"`        // 逝者姓名，用于生成文件名
	Prompt     string `json:"prompt"`      // 图片描述
}

// ImageJobQueue 图片任务队列接口
// 用于解耦 Service 层和队列实现
// Service 层只需知道"有个东西能接收任务"，不需要知道是 Kafka 还是本地协程
type ImageJobQueue interface {
	// Enqueue 投递一个图片生成任务
	Enqueue(ctx context.Context, job ImageJob) error
	// Close 关闭队列，停止消费
	Close() error
}

// imageJobQueue 用于存储注入的 ImageJobQueue 实现
var imageJobQueue ImageJobQueue

// SetImageJobQueue 注入 ImageJobQueue 实现
func SetImageJobQueue(q ImageJobQueue) {
	imageJobQueue = q
}

// GetImageJobQueue 获取 ImageJobQueue 实现
func GetImageJobQueue() ImageJobQueue {
	return imageJobQueue
}
