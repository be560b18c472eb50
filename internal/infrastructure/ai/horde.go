package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"eternal_memories_server/internal/config"
	"eternal_memories_server/pkg/constants"
	"eternal_memories_server/pkg/errorx"
)

// defaultHordeEndpoint AI Horde 官方服务地址
const defaultHordeEndpoint = "https://aihorde.net/api/v2"

// hordeImageService AI Horde 纪念插画生成实现
// 提交异步生成请求后轮询任务状态，最长等待约 3 分钟
type hordeImageService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewImageService 创建纪念插画生成服务实例
// 未配置 API Key 时返回 nil，调用方据此跳过图片生成
func NewImageService() ImageService {
	conf := config.GetConfig().AIConfig
	key := strings.TrimSpace(conf.HordeAPIKey)
	if key == "" || strings.Contains(strings.ToLower(key), "your api key") {
		return nil
	}
	endpoint := strings.TrimRight(conf.HordeEndpoint, "/")
	if endpoint == "" {
		endpoint = defaultHordeEndpoint
	}
	return &hordeImageService{
		apiKey:   key,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// hordeParams 生成参数
type hordeParams struct {
	Steps          int      `json:"steps"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	SamplerName    string   `json:"sampler_name"`
	CfgScale       float64  `json:"cfg_scale"`
	ClipSkip       int      `json:"clip_skip"`
	Karras         bool     `json:"karras"`
	Tiling         bool     `json:"tiling"`
	Denoise        float64  `json:"denoise"`
	PostProcessing []string `json:"post_processing"`
	NegativePrompt string   `json:"negative_prompt"`
}

// hordeSubmitRequest 异步生成请求体
type hordeSubmitRequest struct {
	Prompt     string      `json:"prompt"`
	Params     hordeParams `json:"params"`
	Nsfw       bool        `json:"nsfw"`
	CensorNsfw bool        `json:"censor_nsfw"`
	Models     []string    `json:"models"`
}

// hordeSubmitResponse 提交响应
type hordeSubmitResponse struct {
	ID string `json:"id"`
}

// hordeCheckResponse 任务状态检查响应
type hordeCheckResponse struct {
	Done bool `json:"done"`
}

// hordeStatusResponse 任务结果响应
type hordeStatusResponse struct {
	Generations []struct {
		Img string `json:"img"`
	} `json:"generations"`
}

// GenerateMemorialImage 生成纪念插画并返回图片 URL
// 流程：提交异步请求 -> 按固定间隔轮询 done 状态 -> 拉取生成结果
func (s *hordeImageService) GenerateMemorialImage(ctx context.Context, prompt string) (string, error) {
	// 卡通插画风格的增强提示词，保持庄重、准确、风格化
	enhancedPrompt := "A respectful, serene memorial portrait as a soft cartoon/illustration. " +
		"Subject details: " + prompt + ". " +
		"Style: clean line art, cel shading, gentle pastel colors, soft lighting, " +
		"subtle starry or floral background, high clarity, symmetrical face, elegant composition. " +
		"Professional illustration quality, no text or watermark."

	// 负面提示词，减少畸变和无关元素
	negativePrompt := "nsfw, gore, violence, harsh shadows, lowres, blurry, noisy, deformed, " +
		"mutated, extra fingers, extra limbs, crossed eyes, bad anatomy, bad hands, " +
		"text, caption, watermark, signature, logo, frames, border, jpeg artifacts"

	submitBody, err := json.Marshal(hordeSubmitRequest{
		Prompt: enhancedPrompt,
		Params: hordeParams{
			Steps:          34,
			Width:          768,
			Height:         768,
			SamplerName:    "k_euler_a",
			CfgScale:       8.0,
			ClipSkip:       2,
			Karras:         true,
			Denoise:        1.0,
			PostProcessing: []string{"RealESRGAN_x4plus_anime_6B"},
			NegativePrompt: negativePrompt,
		},
		Nsfw:       false,
		CensorNsfw: true,
		// 优先卡通/动漫模型，Horde 会在不可用时自动回退
		Models: []string{"anythingv4.5", "ToonYou", "MeinaMix", "stable_diffusion"},
	})
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "horde submit marshal")
	}

	// 1. 提交异步生成请求
	var submitResp hordeSubmitResponse
	if err := s.doJSON(ctx, http.MethodPost, s.endpoint+"/generate/async", submitBody, &submitResp); err != nil {
		return "", err
	}
	if submitResp.ID == "" {
		return "", errorx.New(errorx.CodeServerBusy, "horde 未返回任务 ID")
	}

	// 2. 轮询任务状态，约 3 分钟后放弃
	for i := 0; i < constants.IMAGE_JOB_MAX_POLLS; i++ {
		select {
		case <-ctx.Done():
			return "", errorx.Wrap(ctx.Err(), errorx.CodeServerBusy, "horde poll canceled")
		case <-time.After(constants.IMAGE_JOB_POLL_INTERVAL):
		}

		var check hordeCheckResponse
		if err := s.doJSON(ctx, http.MethodGet, s.endpoint+"/generate/check/"+submitResp.ID, nil, &check); err != nil {
			return "", err
		}
		if !check.Done {
			continue
		}

		// 3. 拉取生成结果
		var status hordeStatusResponse
		if err := s.doJSON(ctx, http.MethodGet, s.endpoint+"/generate/status/"+submitResp.ID, nil, &status); err != nil {
			return "", err
		}
		if len(status.Generations) == 0 || status.Generations[0].Img == "" {
			return "", errorx.New(errorx.CodeServerBusy, "horde 任务完成但未返回图片")
		}
		return status.Generations[0].Img, nil
	}

	return "", errorx.New(errorx.CodeServerBusy, "horde 图片生成超时")
}

// doJSON 发送请求并解析 JSON 响应
func (s *hordeImageService) doJSON(ctx context.Context, method, url string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "horde request %s", url)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "horde request %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorx.Newf(errorx.CodeServerBusy, "horde request %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DownloadImage 下载生成的图片并保存到静态资源目录
// 返回可用于对外访问的相对路径，如 "memorial_images/ai_memorial_Jane_Doe.png"
func DownloadImage(ctx context.Context, url string, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "image download request")
	}

	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "image download")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorx.Newf(errorx.CodeServerBusy, "image download: status %d", resp.StatusCode)
	}

	// 校验返回的是图片内容，并按 Content-Type 决定扩展名
	ctype := resp.Header.Get("Content-Type")
	if !strings.Contains(ctype, "image") {
		return "", errorx.Newf(errorx.CodeServerBusy, "image download: non-image content %q", ctype)
	}
	ext := "png"
	if strings.Contains(ctype, "jpeg") || strings.Contains(ctype, "jpg") {
		ext = "jpg"
	} else if strings.Contains(ctype, "webp") {
		ext = "webp"
	}

	dir := config.GetConfig().StaticSrcConfig.StaticImagePath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "image dir create")
	}

	fileName := fmt.Sprintf("ai_memorial_%s.%s", strings.ReplaceAll(name, " ", "_"), ext)
	fullPath := filepath.Join(dir, fileName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "image file create")
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "image file write")
	}

	zap.L().Info("AI 插画已保存", zap.String("path", fullPath))
	return fileName, nil
}
