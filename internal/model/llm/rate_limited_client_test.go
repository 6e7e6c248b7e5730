// Copyright 2026 fanjia1024
// Tests for the rate limited client wrapper

package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	generateCalls int
	model         string
}

func (c *countingClient) Generate(prompt string, options GenerateOptions) (string, error) {
	return c.GenerateWithContext(context.Background(), prompt, options)
}

func (c *countingClient) GenerateWithContext(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	c.generateCalls++
	return "out", nil
}

func (c *countingClient) ListModels(ctx context.Context) ([]string, error) {
	return []string{"models/gemini-1.5-flash"}, nil
}

func (c *countingClient) Model() string         { return c.model }
func (c *countingClient) Provider() string      { return "counting" }
func (c *countingClient) SetModel(model string) { c.model = model }

func TestRateLimitedClient_Delegates(t *testing.T) {
	inner := &countingClient{}
	c := NewRateLimitedClient(inner, 600, 10)

	out, err := c.GenerateWithContext(context.Background(), "p", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "out", out)
	assert.Equal(t, 1, inner.generateCalls)

	c.SetModel("m1")
	assert.Equal(t, "m1", c.Model())
	assert.Equal(t, "counting", c.Provider())

	names, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestRateLimitedClient_NoLimitWhenZero(t *testing.T) {
	inner := &countingClient{}
	c := NewRateLimitedClient(inner, 0, 0)

	for i := 0; i < 20; i++ {
		_, err := c.Generate("p", GenerateOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, 20, inner.generateCalls)
}

func TestRateLimitedClient_BlocksOnBudget(t *testing.T) {
	inner := &countingClient{}
	// 60 RPM = 每秒 1 个令牌，burst 1：第二次调用必须等待
	c := NewRateLimitedClient(inner, 60, 1)

	start := time.Now()
	_, err := c.GenerateWithContext(context.Background(), "p", GenerateOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.GenerateWithContext(ctx, "p", GenerateOptions{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 1, inner.generateCalls)
}
