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
	"os"
	"strings"
	"sync"
	"time"

	"caption-platform/internal/model/vision"
	"caption-platform/pkg/log"
	"caption-platform/pkg/metrics"
	"caption-platform/pkg/tracing"
	"caption-platform/pkg/utils"
)

// CaptionerConfig 固定生成参数；进程生命周期内不变，保证同图可复现
type CaptionerConfig struct {
	MaxLength         int
	NumBeams          int
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

// DefaultCaptionerConfig 默认生成参数
func DefaultCaptionerConfig() CaptionerConfig {
	return CaptionerConfig{
		MaxLength:         50,
		NumBeams:          5,
		RepetitionPenalty: 1.3,
		NoRepeatNgramSize: 2,
	}
}

// Captioner captioning 阶段：校验引用 → 解码归一化 → 模型推理 → 失败分类。
// 除注入的模型协作者外无跨请求状态
type Captioner struct {
	client vision.Client
	cfg    CaptionerConfig
	logger *log.Logger

	loadMu sync.Mutex
	loaded bool

	// 底层推理服务不保证并发安全，按模型实例串行化
	inferMu sync.Mutex
}

// NewCaptioner 创建 captioning 阶段；未设置的生成参数逐项取默认值
func NewCaptioner(client vision.Client, cfg CaptionerConfig, logger *log.Logger) *Captioner {
	def := DefaultCaptionerConfig()
	cfg.MaxLength = utils.DefaultInt(cfg.MaxLength, def.MaxLength)
	cfg.NumBeams = utils.DefaultInt(cfg.NumBeams, def.NumBeams)
	cfg.RepetitionPenalty = utils.DefaultFloat(cfg.RepetitionPenalty, def.RepetitionPenalty)
	cfg.NoRepeatNgramSize = utils.DefaultInt(cfg.NoRepeatNgramSize, def.NoRepeatNgramSize)
	if logger == nil {
		logger = log.Default()
	}
	return &Captioner{client: client, cfg: cfg, logger: logger}
}

// Load 加载模型；幂等，加载成功后再次调用为 no-op
func (c *Captioner) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.loaded {
		return nil
	}

	c.logger.Info("加载 caption 模型", "backend", c.client.Name())
	if err := c.client.Load(ctx); err != nil {
		return WrapError(KindCaptionGenerationFailed, "failed to load caption model", err)
	}
	c.loaded = true
	return nil
}

// Generate 为单张图像生成字面描述。
// 校验顺序固定：引用存在 → 可解码 → 模型推理
func (c *Captioner) Generate(ctx context.Context, imagePath string) (string, error) {
	if err := c.Load(ctx); err != nil {
		return "", err
	}

	if _, err := os.Stat(imagePath); err != nil {
		return "", WrapError(KindImageNotFound, "image not found: "+imagePath, err)
	}

	img, err := decodeImage(imagePath)
	if err != nil {
		return "", WrapError(KindInvalidImage, "cannot decode image: "+imagePath, err)
	}

	jpegBytes, err := img.EncodeJPEG()
	if err != nil {
		return "", WrapError(KindCaptionGenerationFailed, "caption generation failed", err)
	}

	ctx, span := tracing.StartStageSpan(ctx, "caption")
	defer span.End()
	start := time.Now()

	c.inferMu.Lock()
	text, err := c.client.Describe(ctx, vision.DescribeRequest{
		Image:             jpegBytes,
		MaxLength:         c.cfg.MaxLength,
		NumBeams:          c.cfg.NumBeams,
		RepetitionPenalty: c.cfg.RepetitionPenalty,
		NoRepeatNgramSize: c.cfg.NoRepeatNgramSize,
	})
	c.inferMu.Unlock()

	metrics.StageDuration.WithLabelValues("caption").Observe(time.Since(start).Seconds())

	if err != nil {
		classified := classifyCaptionFailure(err)
		metrics.StageFailTotal.WithLabelValues("caption", classified.Kind.String()).Inc()
		return "", classified
	}

	text = strings.TrimSpace(text)
	if text == "" {
		classified := NewError(KindCaptionGenerationFailed, "caption generation failed",
			"model returned an empty caption")
		metrics.StageFailTotal.WithLabelValues("caption", classified.Kind.String()).Inc()
		return "", classified
	}
	return text, nil
}

// GenerateBatch 顺序处理一组图像引用；首个失败即中止，不返回部分结果
func (c *Captioner) GenerateBatch(ctx context.Context, imagePaths []string) ([]string, error) {
	captions := make([]string, 0, len(imagePaths))
	for _, p := range imagePaths {
		text, err := c.Generate(ctx, p)
		if err != nil {
			return nil, err
		}
		captions = append(captions, text)
	}
	return captions, nil
}
