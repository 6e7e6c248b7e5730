// Copyright 2026 fanjia1024
// Tests for pipeline error taxonomy

package caption

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	e := NewError(KindInvalidImage, "cannot decode image", "unexpected EOF")
	assert.Equal(t, "[invalid_image] cannot decode image: unexpected EOF", e.Error())

	e = NewError(KindImageNotFound, "image not found: /tmp/x.jpg", "")
	assert.Equal(t, "[image_not_found] image not found: /tmp/x.jpg", e.Error())
}

func TestWrapError_Unwrap(t *testing.T) {
	base := errors.New("connection refused")
	e := WrapError(KindModelNetworkError, "请检查网络连接", base)
	require.ErrorIs(t, e, base)
	assert.Equal(t, "connection refused", e.Details)
}

func TestGetError_Wrapped(t *testing.T) {
	e := NewError(KindResourceLimitExceeded, "quota exhausted", "")
	wrapped := fmt.Errorf("stage failed: %w", e)

	got, ok := GetError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindResourceLimitExceeded, got.Kind)

	_, ok = GetError(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindOf_IsKind(t *testing.T) {
	e := NewError(KindEnhancementFailed, "enhancement failed", "")
	k, ok := KindOf(e)
	require.True(t, ok)
	assert.Equal(t, KindEnhancementFailed, k)

	assert.True(t, IsKind(e, KindEnhancementFailed))
	assert.False(t, IsKind(e, KindAPIConfigurationError))
	assert.False(t, IsKind(errors.New("plain"), KindEnhancementFailed))
}

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindImageNotFound:           "image_not_found",
		KindInvalidImage:            "invalid_image",
		KindCaptionGenerationFailed: "caption_generation_failed",
		KindEnhancementFailed:       "enhancement_failed",
		KindResourceLimitExceeded:   "resource_limit_exceeded",
		KindModelNetworkError:       "model_network_error",
		KindAPIConfigurationError:   "api_configuration_error",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Equal(t, "unknown", Kind(99).String())
}
