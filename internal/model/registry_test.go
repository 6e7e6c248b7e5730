// Copyright 2026 fanjia1024
// Tests for model registry

package model

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caption-platform/internal/model/vision"
)

func TestGetLLM_NotRegistered(t *testing.T) {
	// Get non-existent LLM
	_, err := GetLLM("non-existent-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestGetVision_NotRegistered(t *testing.T) {
	// Get non-existent Vision
	_, err := GetVision("non-existent-vision")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

type noopVision struct{}

func (noopVision) Load(ctx context.Context) error { return nil }
func (noopVision) Describe(ctx context.Context, req vision.DescribeRequest) (string, error) {
	return "", nil
}
func (noopVision) Healthy() bool { return true }
func (noopVision) Name() string  { return "noop" }

func TestRegisterVision_Roundtrip(t *testing.T) {
	RegisterVision("test-noop", noopVision{})
	c, err := GetVision("test-noop")
	require.NoError(t, err)
	assert.Equal(t, "noop", c.Name())
}

func TestVisionNames_Sorted(t *testing.T) {
	RegisterVision("zz-backend", noopVision{})
	RegisterVision("aa-backend", noopVision{})

	names := VisionNames()
	assert.Contains(t, names, "aa-backend")
	assert.Contains(t, names, "zz-backend")
	assert.True(t, sort.StringsAreSorted(names), "names should be sorted: %v", names)
}
