// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient 包装 Client，按 RPM 限流远端调用（本地限流先于配额耗尽触发）
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient 创建限流客户端；requestsPerMinute <= 0 时不限流
func NewRateLimitedClient(inner Client, requestsPerMinute float64, burst int) *RateLimitedClient {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)
	}
	return &RateLimitedClient{inner: inner, limiter: limiter}
}

// Generate 生成文本
func (c *RateLimitedClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

// GenerateWithContext 先取令牌再调用底层客户端
func (c *RateLimitedClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return c.inner.GenerateWithContext(ctx, prompt, options)
}

// ListModels 列出可用模型（发现调用不限流）
func (c *RateLimitedClient) ListModels(ctx context.Context) ([]string, error) {
	return c.inner.ListModels(ctx)
}

// Model 返回模型名称
func (c *RateLimitedClient) Model() string { return c.inner.Model() }

// Provider 返回提供商名称
func (c *RateLimitedClient) Provider() string { return c.inner.Provider() }

// SetModel 设置模型
func (c *RateLimitedClient) SetModel(model string) { c.inner.SetModel(model) }
