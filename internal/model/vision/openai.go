package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"caption-platform/pkg/utils"
)

const describePrompt = "Describe this image in one short, literal English sentence."

// OpenAIClient OpenAI 兼容多模态后端（无 BLIP sidecar 的部署用）
type OpenAIClient struct {
	model   string
	apiKey  string
	baseURL string

	mu sync.Mutex
	cm einomodel.BaseChatModel
}

// NewOpenAIClient 创建 OpenAI 兼容视觉客户端
func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{
		model:   utils.CoalesceString(cfg.Model, "gpt-4o-mini"),
		apiKey:  utils.CoalesceString(cfg.APIKey, os.Getenv("OPENAI_API_KEY")),
		baseURL: cfg.BaseURL,
	}
}

// Load 构建 ChatModel；幂等
func (o *OpenAIClient) Load(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cm != nil {
		return nil
	}

	cfg := &einoopenai.ChatModelConfig{
		Model:  o.model,
		APIKey: o.apiKey,
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	cm, err := einoopenai.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("创建 OpenAI ChatModel 失败: %w", err)
	}
	o.cm = cm
	return nil
}

// Describe 以多模态消息生成描述
func (o *OpenAIClient) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	o.mu.Lock()
	cm := o.cm
	o.mu.Unlock()
	if cm == nil {
		return "", fmt.Errorf("OpenAI ChatModel 未加载")
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.Image)
	msg := &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: describePrompt},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:    dataURL,
					Detail: schema.ImageURLDetailAuto,
				},
			},
		},
	}

	out, err := cm.Generate(ctx, []*schema.Message{msg},
		einomodel.WithTemperature(0.2),
		einomodel.WithMaxTokens(req.MaxLength*4), // token 预算放宽于词数上限
	)
	if err != nil {
		return "", fmt.Errorf("调用 OpenAI 视觉模型失败: %w", err)
	}
	return out.Content, nil
}

// Healthy 已加载即视为可用（远端无健康探测端点）
func (o *OpenAIClient) Healthy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cm != nil
}

// Name 返回后端名称
func (o *OpenAIClient) Name() string { return "openai" }
