package mq

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	dao "eternal_memories_server/internal/dao/mysql"
	myredis "eternal_memories_server/internal/dao/redis"
	"eternal_memories_server/internal/infrastructure/ai"
)

// 图片任务状态，写入 Redis 供前端轮询
const (
	JobStatusPending = "pending"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// jobStatusTTL 任务状态键的过期时间
const jobStatusTTL = time.Hour

// ImageJobStatusKey 返回纪念页图片任务的 Redis 状态键
func ImageJobStatusKey(memorialID uint) string {
	return "image_job_" + strconv.FormatUint(uint64(memorialID), 10)
}

// imageJobWorker 图片任务执行器
// Kafka 队列和本地队列共用同一套执行逻辑
type imageJobWorker struct {
	images ai.ImageService
	cache  myredis.AsyncCacheService
}

// setStatus 异步回写任务状态
func (w *imageJobWorker) setStatus(memorialID uint, status string) {
	key := ImageJobStatusKey(memorialID)
	w.cache.SubmitTask(func() {
		if err := w.cache.Set(context.Background(), key, status, jobStatusTTL); err != nil {
			zap.L().Error("图片任务状态写入失败", zap.String("key", key), zap.Error(err))
		}
	})
}

// process 执行单个图片生成任务
// 流程：调用 AI Horde 生成 -> 下载图片到静态目录 -> 回写纪念页记录
func (w *imageJobWorker) process(ctx context.Context, job ImageJob) {
	if w.images == nil {
		zap.L().Warn("图片服务未配置，跳过任务", zap.Uint("memorial_id", job.MemorialID))
		w.setStatus(job.MemorialID, JobStatusFailed)
		return
	}

	w.setStatus(job.MemorialID, JobStatusPending)

	url, err := w.images.GenerateMemorialImage(ctx, job.Prompt)
	if err != nil {
		zap.L().Error("AI 插画生成失败", zap.Uint("memorial_id", job.MemorialID), zap.Error(err))
		w.setStatus(job.MemorialID, JobStatusFailed)
		return
	}

	fileName, err := ai.DownloadImage(ctx, url, job.Name)
	if err != nil {
		zap.L().Error("AI 插画下载失败", zap.Uint("memorial_id", job.MemorialID), zap.Error(err))
		w.setStatus(job.MemorialID, JobStatusFailed)
		return
	}

	// 任务消费时纪念页可能已被删除，删除后静默丢弃结果
	memorial, err := dao.Repos.Memorial.FindByID(job.MemorialID)
	if err != nil {
		zap.L().Warn("图片任务目标纪念页不存在", zap.Uint("memorial_id", job.MemorialID), zap.Error(err))
		w.setStatus(job.MemorialID, JobStatusFailed)
		return
	}

	memorial.Image = fileName
	memorial.IsAiGeneratedImage = true
	if err := dao.Repos.Memorial.Update(memorial); err != nil {
		zap.L().Error("图片任务回写纪念页失败", zap.Uint("memorial_id", job.MemorialID), zap.Error(err))
		w.setStatus(job.MemorialID, JobStatusFailed)
		return
	}

	zap.L().Info("AI 插画任务完成", zap.Uint("memorial_id", job.MemorialID), zap.String("image", fileName))
	w.setStatus(job.MemorialID, JobStatusDone)
}
