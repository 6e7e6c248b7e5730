// Copyright 2026 fanjia1024
// Tests for failure classification

package caption

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCaptionFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"cuda oom", errors.New("RuntimeError: CUDA out of memory"), KindResourceLimitExceeded},
		{"generic oom", errors.New("OOM killed"), KindResourceLimitExceeded},
		{"insufficient memory", errors.New("insufficient memory on device"), KindResourceLimitExceeded},
		{"generic failure", errors.New("tensor shape mismatch"), KindCaptionGenerationFailed},
		// captioning 阶段只区分显存耗尽，推理服务超时走兜底种类
		{"sidecar timeout", errors.New("context deadline exceeded"), KindCaptionGenerationFailed},
		{"sidecar unreachable", errors.New("dial tcp: connection refused"), KindCaptionGenerationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyCaptionFailure(tc.err)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

func TestClassifyCaptionFailure_PassThrough(t *testing.T) {
	// 已分类的错误不得被重新分类
	e := NewError(KindInvalidImage, "cannot decode image", "")
	got := classifyCaptionFailure(e)
	assert.Equal(t, KindInvalidImage, got.Kind)
	assert.Same(t, e, got)
}

func TestClassifyEnhanceFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"invalid api key", errors.New("API_KEY_INVALID: the provided api_key is not valid"), KindAPIConfigurationError},
		{"http 403", errors.New("Gemini API 返回错误 (status 403): forbidden"), KindAPIConfigurationError},
		{"unauthorized", errors.New("unauthorized request"), KindAPIConfigurationError},
		{"quota", errors.New("quota exceeded for metric"), KindResourceLimitExceeded},
		{"http 429", errors.New("Gemini API 返回错误 (status 429): too many requests"), KindResourceLimitExceeded},
		{"rate limit", errors.New("rate limit reached"), KindResourceLimitExceeded},
		{"connection refused", errors.New("dial tcp: connection refused"), KindModelNetworkError},
		{"timeout", errors.New("request timeout"), KindModelNetworkError},
		{"ctx deadline", errors.New("context deadline exceeded"), KindModelNetworkError},
		{"dns", errors.New("lookup generativelanguage.googleapis.com: no such host"), KindModelNetworkError},
		{"generic", errors.New("unexpected response shape"), KindEnhancementFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyEnhanceFailure(tc.err)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

// 凭证判定优先于配额和网络：同报文多指示词时按固定优先级归类
func TestClassifyEnhanceFailure_Precedence(t *testing.T) {
	err := errors.New("403: api key quota check failed due to network")
	got := classifyEnhanceFailure(err)
	assert.Equal(t, KindAPIConfigurationError, got.Kind)

	err = errors.New("429 quota exhausted, connection closed")
	got = classifyEnhanceFailure(err)
	assert.Equal(t, KindResourceLimitExceeded, got.Kind)
}

func TestClassifyEnhanceFailure_PassThrough(t *testing.T) {
	e := NewError(KindAPIConfigurationError, "API Key missing, please check your .env file", "")
	got := classifyEnhanceFailure(e)
	assert.Same(t, e, got)
}
