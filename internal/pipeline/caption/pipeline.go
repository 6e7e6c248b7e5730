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
	"strconv"
	"time"

	"caption-platform/pkg/log"
	"caption-platform/pkg/metrics"
)

// RunOptions 单次管道执行选项
type RunOptions struct {
	Enhance    bool
	Creativity float64 // [0,1]，增强温度
}

// Pipeline 两阶段管道编排：captioning →（可选）增强。
// 仅持有两个进程级阶段实例，自身无跨请求状态；不重试、不改写阶段错误
type Pipeline struct {
	captioner *Captioner
	enhancer  *Enhancer
	logger    *log.Logger
}

// NewPipeline 创建管道；阶段实例由启动时装配注入，进程内复用
func NewPipeline(captioner *Captioner, enhancer *Enhancer, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{captioner: captioner, enhancer: enhancer, logger: logger}
}

// Captioner 返回 captioning 阶段（批量入口用）
func (p *Pipeline) Captioner() *Captioner { return p.captioner }

// Enhancer 返回增强阶段
func (p *Pipeline) Enhancer() *Enhancer { return p.enhancer }

// Run 执行端到端管道。引用不存在时在触碰任何模型之前返回
// KindImageNotFound；阶段错误原样透传，增强失败不回退基础描述
func (p *Pipeline) Run(ctx context.Context, imagePath string, opts RunOptions) (string, error) {
	start := time.Now()

	if _, err := os.Stat(imagePath); err != nil {
		metrics.PipelineTotal.WithLabelValues("error").Inc()
		return "", WrapError(KindImageNotFound, "image not found: "+imagePath, err)
	}

	base, err := p.captioner.Generate(ctx, imagePath)
	if err != nil {
		metrics.PipelineTotal.WithLabelValues("error").Inc()
		return "", err
	}

	result := base
	if opts.Enhance {
		result, err = p.enhancer.Enhance(ctx, base, opts.Creativity)
		if err != nil {
			metrics.PipelineTotal.WithLabelValues("error").Inc()
			return "", err
		}
	}

	metrics.PipelineTotal.WithLabelValues("ok").Inc()
	metrics.PipelineDuration.WithLabelValues(strconv.FormatBool(opts.Enhance)).
		Observe(time.Since(start).Seconds())
	p.logger.Debug("管道执行完成", "image", imagePath, "enhance", opts.Enhance)
	return result, nil
}
