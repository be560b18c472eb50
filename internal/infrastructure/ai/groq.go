package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/config"
)

// groqEndpoint Groq Cloud OpenAI 兼容接口地址
const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// tributeFallback 生成失败时返回的兜底文案
const tributeFallback = "We encountered an issue while generating your tribute. Please try again later."

// groqTributeService Groq Cloud 悼词生成实现
type groqTributeService struct {
	apiKey string
	model  string
	client *http.Client
}

// mockTributeService 本地 Mock 实现
// 未配置 API Key 时使用，直接拼接一段朴素的悼词，便于本机跑通创建链路
type mockTributeService struct{}

func (s *mockTributeService) GenerateTribute(ctx context.Context, name, relationship, memories string) string {
	zap.L().Warn("Tribute Service 使用本地 Mock 模式（未调用 Groq）", zap.String("name", name))
	return fmt.Sprintf("In loving memory of %s, my %s. %s", name, relationship, memories)
}

// NewTributeService 创建悼词生成服务实例
// 未配置有效的 Groq API Key 时降级为本地 Mock
func NewTributeService() TributeService {
	conf := config.GetConfig().AIConfig
	key := strings.TrimSpace(conf.GroqAPIKey)
	if key == "" || strings.Contains(strings.ToLower(key), "your api key") {
		return &mockTributeService{}
	}
	model := conf.GroqModel
	if model == "" {
		model = "llama3-70b-8192"
	}
	return &groqTributeService{
		apiKey: key,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// groqMessage 对话消息
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqRequest 请求体
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// groqResponse 响应体（只取需要的字段）
type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateTribute 调用 Groq 生成悼词
// 低温度 + 限定素材，确保生成内容克制、不杜撰细节
func (s *groqTributeService) GenerateTribute(ctx context.Context, name, relationship, memories string) string {
	prompt := fmt.Sprintf(
		"Write a concise tribute for %s, my %s. Use only these memories: %s. "+
			"120-180 words. Accurate, sincere, respectful. Do not invent details. Keep it simple and meaningful.",
		name, relationship, memories,
	)

	body, err := json.Marshal(groqRequest{
		Model:       s.model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		zap.L().Error("Groq 请求序列化失败", zap.Error(err))
		return tributeFallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, bytes.NewReader(body))
	if err != nil {
		zap.L().Error("Groq 请求构建失败", zap.Error(err))
		return tributeFallback
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().Error("Groq 请求失败", zap.Error(err))
		return tributeFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("Groq 返回非 200 状态码", zap.Int("status", resp.StatusCode))
		return tributeFallback
	}

	var data groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		zap.L().Error("Groq 响应解析失败", zap.Error(err))
		return tributeFallback
	}
	if len(data.Choices) == 0 {
		zap.L().Error("Groq 响应不含生成内容")
		return tributeFallback
	}

	return strings.TrimSpace(data.Choices[0].Message.Content)
}
