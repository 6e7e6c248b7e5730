package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// GeminiClient Gemini 客户端
type GeminiClient struct {
	provider string
	model    string
	apiKey   string
	baseURL  string
	client   *resty.Client
}

// NewGeminiClient 创建新的 Gemini 客户端；model 可为空，由上层按优先级发现后 SetModel
func NewGeminiClient(model, apiKey string, timeout string) (*GeminiClient, error) {
	baseURL := "https://generativelanguage.googleapis.com/v1"
	if envURL := os.Getenv("GEMINI_BASE_URL"); envURL != "" {
		baseURL = envURL
	}

	d := 30 * time.Second
	if timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			d = parsed
		}
	}

	client := resty.New()
	client.SetTimeout(d)

	return &GeminiClient{
		provider: "gemini",
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
	}, nil
}

// geminiResponse generateContent 响应体
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate 生成文本
func (c *GeminiClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 使用上下文生成文本
func (c *GeminiClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	// 构建请求
	generationConfig := map[string]interface{}{
		"temperature": options.Temperature,
	}
	if options.TopP > 0 {
		generationConfig["topP"] = options.TopP
	}
	if options.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = options.MaxTokens
	}
	if len(options.Stop) > 0 {
		generationConfig["stopSequences"] = options.Stop
	}

	request := map[string]interface{}{
		"contents": []map[string]interface{}{{
			"parts": []map[string]interface{}{{
				"text": prompt,
			}},
		}},
		"generationConfig": generationConfig,
	}
	if options.System != "" {
		request["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]interface{}{{"text": options.System}},
		}
	}

	// 发送请求
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post(c.baseURL + "/models/" + c.model + ":generateContent?key=" + c.apiKey)

	if err != nil {
		return "", fmt.Errorf("调用 Gemini API 失败: %w", err)
	}

	// 检查响应状态；状态码与原始报文一并带出，供上层按文本分类
	if response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API 返回错误 (status %d): %s", response.StatusCode(), response.String())
	}

	// 解析响应
	var result geminiResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return "", fmt.Errorf("解析 Gemini 响应失败: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		// 无候选结果不视为失败，交由上层决定回退行为
		return "", nil
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// ListModels 列出支持 generateContent 的模型（按服务端顺序）
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var result struct {
		Models []struct {
			Name                       string   `json:"name"`
			SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(c.baseURL + "/models?key=" + c.apiKey)

	if err != nil {
		return nil, fmt.Errorf("调用 Gemini API 失败: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Gemini API 返回错误 (status %d): %s", response.StatusCode(), response.String())
	}

	var names []string
	for _, m := range result.Models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names, nil
}

// Model 返回模型名称
func (c *GeminiClient) Model() string {
	return c.model
}

// Provider 返回提供商名称
func (c *GeminiClient) Provider() string {
	return c.provider
}

// SetModel 设置模型
func (c *GeminiClient) SetModel(model string) {
	c.model = model
}
