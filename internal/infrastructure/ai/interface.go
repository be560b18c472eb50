// Package ai 封装外部 AI 服务的调用
// Groq Cloud 用于生成悼词文本，AI Horde 用于生成纪念插画
// Service 层应依赖此处定义的接口而非具体实现
package ai

import "context"

// TributeService 悼词生成服务接口
// 抽象文本生成操作，支持多种实现（Groq、本地 mock 等）
type TributeService interface {
	// GenerateTribute 根据逝者姓名、亲属关系和回忆片段生成一段悼词
	// 任何失败（无 API Key、网络超时、响应异常）都返回统一的兜底文案而非错误，
	// 保证创建纪念页的主流程不因外部服务故障而中断
	GenerateTribute(ctx context.Context, name, relationship, memories string) string
}

// ImageService 纪念插画生成服务接口
// 抽象图片生成操作，返回生成图片的下载地址
type ImageService interface {
	// GenerateMemorialImage 根据描述生成一张纪念插画
	// 返回图片的 URL；生成失败或超时返回空字符串和错误
	GenerateMemorialImage(ctx context.Context, prompt string) (string, error)
}
