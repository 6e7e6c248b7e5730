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

package caption

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"caption-platform/internal/model/llm"
	"caption-platform/pkg/log"
	"caption-platform/pkg/metrics"
	"caption-platform/pkg/tracing"
	"caption-platform/pkg/utils"
)

// minCaptionLength 低于该长度（去除首尾空白后的字符数）不做增强，原样返回。
// 与 captioning 阶段对缺失/非法图像报错的策略不对称，这是刻意的：
// "无可增强" 不是 "增强失败"
const minCaptionLength = 3

// modelPriority 云端模型优先级；都不可用时退回服务端返回的第一个
var modelPriority = []string{
	"models/gemini-1.5-flash",
	"models/gemini-1.5-pro",
	"models/gemini-pro",
}

const systemInstruction = "You are a creative storyteller. Your task is to transform simple " +
	"image captions into vivid, cinematic, and emotional descriptions. " +
	"Output only one sentence in English."

// Enhancer 增强阶段：将字面描述改写为更具画面感的句子。
// 构造即完成凭证校验与模型发现，不存在半配置状态
type Enhancer struct {
	client llm.Client
	logger *log.Logger
}

// NewEnhancer 创建增强阶段；凭证缺失或模型发现失败立即返回
// KindAPIConfigurationError，任何请求都不会被接受
func NewEnhancer(ctx context.Context, client llm.Client, apiKey string, logger *log.Logger) (*Enhancer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if apiKey == "" {
		return nil, NewError(KindAPIConfigurationError,
			"API Key missing, please check your .env file",
			"GEMINI_API_KEY environment variable is required")
	}

	names, err := client.ListModels(ctx)
	if err != nil {
		return nil, WrapError(KindAPIConfigurationError, "API initialization failed", err)
	}
	if len(names) == 0 {
		return nil, NewError(KindAPIConfigurationError,
			"no generative models available for this API key",
			"check your API key permissions and model availability")
	}

	selected := ""
	for _, preferred := range modelPriority {
		for _, name := range names {
			if name == preferred {
				selected = preferred
				break
			}
		}
		if selected != "" {
			break
		}
	}
	if selected == "" {
		selected = names[0]
	}
	client.SetModel(selected)
	logger.Info("增强模型已选择", "provider", client.Provider(), "model", selected)

	return &Enhancer{client: client, logger: logger}, nil
}

// Model 返回已选定的增强模型名称
func (e *Enhancer) Model() string {
	return e.client.Model()
}

// Enhance 改写描述；creativity ∈ [0,1] 映射为生成温度
func (e *Enhancer) Enhance(ctx context.Context, text string, creativity float64) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minCaptionLength {
		return text, nil
	}

	creativity = utils.ClampFloat(creativity, 0, 1)
	prompt := fmt.Sprintf("Context: %s\n"+
		"Task: Rewrite this into a single, long, cinematic, and vivid sentence. "+
		"Focus on the atmosphere and textures. Output only the enhanced sentence. "+
		"Do not truncate the sentence.", text)

	ctx, span := tracing.StartStageSpan(ctx, "enhance")
	defer span.End()
	start := time.Now()

	out, err := e.client.GenerateWithContext(ctx, prompt, llm.GenerateOptions{
		Temperature: creativity,
		TopP:        0.9,
		System:      systemInstruction,
	})

	metrics.StageDuration.WithLabelValues("enhance").Observe(time.Since(start).Seconds())

	if err != nil {
		classified := classifyEnhanceFailure(err)
		metrics.StageFailTotal.WithLabelValues("enhance", classified.Kind.String()).Inc()
		return "", classified
	}

	// 模型偶尔给输出包一层引号，去引号+去首尾空白是契约的一部分
	out = strings.TrimSpace(strings.ReplaceAll(out, `"`, ""))
	if out == "" {
		return text, nil
	}
	return out, nil
}
