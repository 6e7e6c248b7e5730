package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"

	"caption-platform/pkg/utils"
)

// BLIPClient BLIP 推理 sidecar 客户端（HTTP）
type BLIPClient struct {
	model   string
	device  string
	baseURL string
	client  *resty.Client
	loaded  atomic.Bool
}

// NewBLIPClient 创建 BLIP 客户端；device 仅在 Load 时下发一次，不随请求变化
func NewBLIPClient(cfg Config) *BLIPClient {
	baseURL := utils.CoalesceString(cfg.BaseURL, "http://localhost:5000")
	model := utils.CoalesceString(cfg.Model, "Salesforce/blip-image-captioning-base")
	device := utils.CoalesceString(cfg.Device, "auto")

	d := 5 * time.Minute // 首次加载可能拉取权重
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil {
			d = parsed
		}
	}

	client := resty.New()
	client.SetTimeout(d)

	return &BLIPClient{
		model:   model,
		device:  device,
		baseURL: baseURL,
		client:  client,
	}
}

// Load 请求 sidecar 加载权重并绑定设备；幂等
func (b *BLIPClient) Load(ctx context.Context) error {
	if b.loaded.Load() {
		return nil
	}

	response, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model":  b.model,
			"device": b.device,
		}).
		Post(b.baseURL + "/load")

	if err != nil {
		return fmt.Errorf("加载 BLIP 模型失败: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("加载 BLIP 模型失败 (status %d): %s", response.StatusCode(), response.String())
	}

	b.loaded.Store(true)
	return nil
}

// Describe 提交图像并取回描述
func (b *BLIPClient) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	var result struct {
		Caption string `json:"caption"`
	}

	response, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"image":                base64.StdEncoding.EncodeToString(req.Image),
			"max_length":           req.MaxLength,
			"num_beams":            req.NumBeams,
			"repetition_penalty":   req.RepetitionPenalty,
			"no_repeat_ngram_size": req.NoRepeatNgramSize,
		}).
		SetResult(&result).
		Post(b.baseURL + "/caption")

	if err != nil {
		return "", fmt.Errorf("调用 BLIP 推理服务失败: %w", err)
	}
	// 非 200 的报文原样带出（如 "CUDA out of memory"），由上层按文本分类
	if response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("BLIP 推理服务返回错误 (status %d): %s", response.StatusCode(), response.String())
	}

	return result.Caption, nil
}

// Healthy 探测 sidecar 健康状态
func (b *BLIPClient) Healthy() bool {
	response, err := b.client.R().Get(b.baseURL + "/health")
	if err != nil {
		return false
	}
	return response.StatusCode() == http.StatusOK
}

// Name 返回后端名称
func (b *BLIPClient) Name() string { return "blip" }
