package llm

import (
	"context"
	"fmt"
)

// Client LLM 客户端接口（增强阶段的外部协作者）
type Client interface {
	// Generate 生成文本
	Generate(prompt string, options GenerateOptions) (string, error)
	// GenerateWithContext 使用上下文生成文本
	GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error)
	// ListModels 列出当前凭证可用的生成模型名称（按服务端顺序）
	ListModels(ctx context.Context) ([]string, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
	// SetModel 设置模型
	SetModel(model string)
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop"`
	System      string   `json:"system"` // system instruction，空则不下发
}

// NewClient 创建新的 LLM 客户端
func NewClient(provider, model, apiKey string, timeout string) (Client, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiClient(model, apiKey, timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
