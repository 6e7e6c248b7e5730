package vision

import (
	"context"
	"fmt"
)

// DescribeRequest 单次描述请求；Image 为归一化后重编码的 JPEG 字节
type DescribeRequest struct {
	Image []byte

	// 固定生成参数，由上层在进程生命周期内保持不变
	MaxLength         int
	NumBeams          int
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

// Client 视觉模型接口（captioning 阶段的外部协作者）
type Client interface {
	// Load 加载/预热模型，幂等；失败时返回底层错误由上层分类
	Load(ctx context.Context) error
	// Describe 对已解码图像生成英文短描述
	Describe(ctx context.Context, req DescribeRequest) (string, error)
	// Healthy 返回后端是否可用
	Healthy() bool
	// Name 返回后端名称
	Name() string
}

// Config 视觉后端配置
type Config struct {
	Provider string // blip | openai
	BaseURL  string
	Model    string
	APIKey   string
	Device   string // cuda | mps | cpu | auto，仅初始化时下发一次
	Timeout  string
}

// NewClient 按 provider 创建视觉客户端
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "", "blip":
		return NewBLIPClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Provider)
	}
}
