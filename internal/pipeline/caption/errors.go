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
	"errors"
	"fmt"
)

// Kind 管道错误种类，封闭集合；所有阶段失败必须收敛到其中之一，
// 前端仅按 Kind 分支展示
type Kind int

const (
	// KindImageNotFound 图像引用无法解析为可读数据
	KindImageNotFound Kind = iota
	// KindInvalidImage 数据存在但无法解码为图像
	KindInvalidImage
	// KindCaptionGenerationFailed captioning 阶段的兜底失败
	KindCaptionGenerationFailed
	// KindEnhancementFailed 增强阶段的兜底失败
	KindEnhancementFailed
	// KindResourceLimitExceeded 显存耗尽或 API 配额/限流耗尽
	KindResourceLimitExceeded
	// KindModelNetworkError 访问远端模型/服务的网络失败（含超时）
	KindModelNetworkError
	// KindAPIConfigurationError 远端阶段凭证缺失或被拒绝
	KindAPIConfigurationError
)

// String 实现 fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindImageNotFound:
		return "image_not_found"
	case KindInvalidImage:
		return "invalid_image"
	case KindCaptionGenerationFailed:
		return "caption_generation_failed"
	case KindEnhancementFailed:
		return "enhancement_failed"
	case KindResourceLimitExceeded:
		return "resource_limit_exceeded"
	case KindModelNetworkError:
		return "model_network_error"
	case KindAPIConfigurationError:
		return "api_configuration_error"
	default:
		return "unknown"
	}
}

// Error 管道错误结构体；Message 面向用户，Details 为可选诊断上下文
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError 创建管道错误
func NewError(kind Kind, message string, details string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// WrapError 创建携带底层错误的管道错误
func WrapError(kind Kind, message string, err error) *Error {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &Error{Kind: kind, Message: message, Details: details, Err: err}
}

// IsError 检查是否为管道错误
func IsError(err error) bool {
	var captionErr *Error
	return errors.As(err, &captionErr)
}

// GetError 获取管道错误
func GetError(err error) (*Error, bool) {
	var captionErr *Error
	if errors.As(err, &captionErr) {
		return captionErr, true
	}
	return nil, false
}

// KindOf 返回错误种类；非管道错误返回 false
func KindOf(err error) (Kind, bool) {
	if captionErr, ok := GetError(err); ok {
		return captionErr.Kind, true
	}
	return 0, false
}

// IsKind 判断错误是否为指定种类
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
