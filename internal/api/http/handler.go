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

package http

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"caption-platform/internal/model"
	"caption-platform/internal/model/vision"
	"caption-platform/internal/pipeline/caption"
	"caption-platform/pkg/metrics"
)

const defaultMaxUploadSize = 20 << 20 // 20MB

// Handler HTTP 处理器
type Handler struct {
	pipeline          *caption.Pipeline
	visionClient      vision.Client
	defaultCreativity float64
	maxUploadSize     int64
	tempDir           string
}

// NewHandler 创建新的 HTTP 处理器
func NewHandler(pipeline *caption.Pipeline, visionClient vision.Client) *Handler {
	return &Handler{
		pipeline:          pipeline,
		visionClient:      visionClient,
		defaultCreativity: 0.8,
		maxUploadSize:     defaultMaxUploadSize,
	}
}

// SetDefaultCreativity 设置增强温度默认值
func (h *Handler) SetDefaultCreativity(c float64) { h.defaultCreativity = c }

// SetMaxUploadSize 设置上传大小上限（字节）
func (h *Handler) SetMaxUploadSize(n int64) {
	if n > 0 {
		h.maxUploadSize = n
	}
}

// SetTempDir 设置上传临时目录
func (h *Handler) SetTempDir(dir string) { h.tempDir = dir }

// HealthCheck 健康检查
func (h *Handler) HealthCheck(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "caption-api",
	})
}

// CreateCaption 上传图片并执行两阶段管道
// POST /api/captions（multipart：file 必填，enhance/creativity 可选）
func (h *Handler) CreateCaption(ctx context.Context, c *app.RequestContext) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{
			"error": "请上传图片文件",
		})
		return
	}
	if file.Size > h.maxUploadSize {
		c.JSON(consts.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("文件过大，上限 %d 字节", h.maxUploadSize),
		})
		return
	}
	if !isImageUpload(file.Header.Get("Content-Type"), file.Filename) {
		c.JSON(consts.StatusBadRequest, map[string]string{
			"error": "上传的文件必须是图片",
		})
		return
	}

	enhance := true
	if v := string(c.FormValue("enhance")); v != "" {
		if parsed, perr := strconv.ParseBool(v); perr == nil {
			enhance = parsed
		}
	}
	creativity := h.defaultCreativity
	if v := string(c.FormValue("creativity")); v != "" {
		if parsed, perr := strconv.ParseFloat(v, 64); perr == nil {
			creativity = parsed
		}
	}

	// 上传内容落到临时文件，任何退出路径都要清理
	tempDir := h.tempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	tempPath := filepath.Join(tempDir, "caption-"+uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		hlog.CtxErrorf(ctx, "保存上传文件失败: %v", err)
		c.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "保存上传文件失败",
		})
		return
	}
	defer os.Remove(tempPath)

	metrics.UploadBytes.Observe(float64(file.Size))

	result, err := h.pipeline.Run(ctx, tempPath, caption.RunOptions{
		Enhance:    enhance,
		Creativity: creativity,
	})
	if err != nil {
		h.writeError(ctx, c, err)
		return
	}

	out := map[string]interface{}{
		"caption":  result,
		"enhanced": enhance,
	}
	if enhance && h.pipeline.Enhancer() != nil {
		out["model"] = h.pipeline.Enhancer().Model()
	}
	c.JSON(consts.StatusOK, out)
}

// writeError 将管道错误种类映射为 HTTP 状态；message 与 details 都要给到调用方
func (h *Handler) writeError(ctx context.Context, c *app.RequestContext, err error) {
	captionErr, ok := caption.GetError(err)
	if !ok {
		// 管道之外不应出现未分类错误
		hlog.CtxErrorf(ctx, "未分类错误: %v", err)
		c.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
		return
	}

	status := consts.StatusInternalServerError
	if captionErr.Kind == caption.KindImageNotFound {
		status = consts.StatusNotFound
	}

	hlog.CtxErrorf(ctx, "管道执行失败 kind=%s: %v", captionErr.Kind, err)
	body := map[string]string{
		"error": captionErr.Message,
		"kind":  captionErr.Kind.String(),
	}
	if captionErr.Details != "" {
		body["details"] = captionErr.Details
	}
	c.JSON(status, body)
}

// SystemStatus 系统状态：两阶段协作者的健康与注册表里的可用后端
// GET /api/system/status
func (h *Handler) SystemStatus(ctx context.Context, c *app.RequestContext) {
	status := map[string]interface{}{
		"service": "caption-api",
	}
	if h.visionClient != nil {
		status["vision_backend"] = h.visionClient.Name()
		status["vision_healthy"] = h.visionClient.Healthy()
	}
	if h.pipeline != nil && h.pipeline.Enhancer() != nil {
		status["enhance_model"] = h.pipeline.Enhancer().Model()
	}
	status["registered_llm"] = model.LLMNames()
	status["registered_vision"] = model.VisionNames()
	c.JSON(consts.StatusOK, status)
}

// SystemMetrics 以 Prometheus 文本格式输出指标
// GET /api/system/metrics
func (h *Handler) SystemMetrics(ctx context.Context, c *app.RequestContext) {
	var sb strings.Builder
	if err := metrics.WriteText(&sb); err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "采集指标失败",
		})
		return
	}
	c.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(sb.String()))
}

// isImageUpload 按 multipart 头与扩展名判断是否为图片
func isImageUpload(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tif", ".tiff":
		return true
	}
	return false
}
