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

package app

import (
	"context"
	"fmt"

	"caption-platform/internal/model"
	"caption-platform/internal/model/llm"
	"caption-platform/internal/model/vision"
	"caption-platform/internal/pipeline/caption"
	"caption-platform/pkg/config"
	"caption-platform/pkg/log"
	"caption-platform/pkg/secrets"
)

// Bootstrap 进程级装配结果：配置、日志与两阶段管道。
// 模型客户端与阶段实例都在这里创建一次，进程内复用
type Bootstrap struct {
	Config       *config.Config
	Logger       *log.Logger
	Pipeline     *caption.Pipeline
	VisionClient vision.Client
	LLMClient    llm.Client
}

// NewBootstrap 装配应用；凭证缺失或模型发现失败在这里直接失败，
// 不允许半配置的进程对外服务
func NewBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	logger, err := log.NewLogger(&log.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	store, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Secrets.Provider,
		Vault: secrets.VaultConfig{
			Address:    cfg.Secrets.VaultAddr,
			Token:      cfg.Secrets.VaultToken,
			PathPrefix: cfg.Secrets.VaultPath,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 secret store 失败: %w", err)
	}

	apiKey := cfg.Model.LLM.APIKey
	if apiKey == "" {
		// 配置未内联 key 时从 secret store 取（env provider 即读环境变量）
		if v, serr := store.Get(ctx, "GEMINI_API_KEY"); serr == nil {
			apiKey = v
		}
	}

	visionClient, err := vision.NewClient(vision.Config{
		Provider: cfg.Model.Vision.Provider,
		BaseURL:  cfg.Model.Vision.BaseURL,
		Model:    cfg.Model.Vision.Model,
		APIKey:   cfg.Model.Vision.APIKey,
		Device:   cfg.Model.Vision.Device,
		Timeout:  cfg.Model.Vision.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("创建视觉客户端失败: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.Model.LLM.Provider, cfg.Model.LLM.Model, apiKey, cfg.Model.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("创建 LLM 客户端失败: %w", err)
	}
	if cfg.Model.LLM.RequestsPerMinute > 0 {
		llmClient = llm.NewRateLimitedClient(llmClient, cfg.Model.LLM.RequestsPerMinute, cfg.Model.LLM.Burst)
	}

	model.RegisterVision("vision", visionClient)
	model.RegisterLLM("enhance", llmClient)

	captioner := caption.NewCaptioner(visionClient, caption.CaptionerConfig{
		MaxLength:         cfg.Model.Vision.MaxLength,
		NumBeams:          cfg.Model.Vision.NumBeams,
		RepetitionPenalty: cfg.Model.Vision.RepetitionPenalty,
		NoRepeatNgramSize: cfg.Model.Vision.NoRepeatNgramSize,
	}, logger)

	enhancer, err := caption.NewEnhancer(ctx, llmClient, apiKey, logger)
	if err != nil {
		return nil, err
	}

	return &Bootstrap{
		Config:       cfg,
		Logger:       logger,
		Pipeline:     caption.NewPipeline(captioner, enhancer, logger),
		VisionClient: visionClient,
		LLMClient:    llmClient,
	}, nil
}
