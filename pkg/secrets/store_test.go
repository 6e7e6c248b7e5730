// Copyright 2026 fanjia1024
// Tests for secret stores

package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_DefaultsToEnv(t *testing.T) {
	s, err := NewStore(Config{})
	require.NoError(t, err)
	require.NotNil(t, s)

	s, err = NewStore(Config{Provider: "env"})
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNewStore_Unsupported(t *testing.T) {
	_, err := NewStore(Config{Provider: "aws-kms"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported secret provider")
}

func TestEnvStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewEnvStore()

	t.Setenv("CAPTION_TEST_SECRET", "v1")
	v, err := s.Get(ctx, "CAPTION_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	_, err = s.Get(ctx, "CAPTION_TEST_SECRET_MISSING")
	require.Error(t, err)

	// 设置为空串与未设置等价
	t.Setenv("CAPTION_TEST_SECRET_EMPTY", "")
	_, err = s.Get(ctx, "CAPTION_TEST_SECRET_EMPTY")
	require.Error(t, err)

	require.NoError(t, s.Set(ctx, "CAPTION_TEST_SECRET2", "v2"))
	v, err = s.Get(ctx, "CAPTION_TEST_SECRET2")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	require.NoError(t, s.Delete(ctx, "CAPTION_TEST_SECRET2"))
}

func TestEnvStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewEnvStore()
	t.Setenv("CAPLIST_B", "2")
	t.Setenv("CAPLIST_A", "1")

	keys, err := s.List(ctx, "CAPLIST_")
	require.NoError(t, err)
	assert.Equal(t, []string{"CAPLIST_A", "CAPLIST_B"}, keys)
}
