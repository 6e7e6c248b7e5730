// Copyright 2026 fanjia1024
// Tests for the BLIP sidecar client

package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBLIPClient_LoadAndDescribe(t *testing.T) {
	loadCalls := 0
	var loadBody map[string]interface{}
	var captionBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/load":
			loadCalls++
			_ = json.NewDecoder(r.Body).Decode(&loadBody)
			w.WriteHeader(http.StatusOK)
		case "/caption":
			_ = json.NewDecoder(r.Body).Decode(&captionBody)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"caption": "a dog running on grass"})
		case "/health":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewBLIPClient(Config{BaseURL: srv.URL, Device: "cuda", Timeout: "10s"})

	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.Load(context.Background()))
	// Load 幂等，device 只下发一次
	assert.Equal(t, 1, loadCalls)
	assert.Equal(t, "cuda", loadBody["device"])
	assert.Equal(t, "Salesforce/blip-image-captioning-base", loadBody["model"])

	imageBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	text, err := c.Describe(context.Background(), DescribeRequest{
		Image:             imageBytes,
		MaxLength:         50,
		NumBeams:          5,
		RepetitionPenalty: 1.3,
		NoRepeatNgramSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "a dog running on grass", text)

	assert.Equal(t, base64.StdEncoding.EncodeToString(imageBytes), captionBody["image"])
	assert.Equal(t, float64(50), captionBody["max_length"])
	assert.Equal(t, float64(5), captionBody["num_beams"])
	assert.Equal(t, 1.3, captionBody["repetition_penalty"])
	assert.Equal(t, float64(2), captionBody["no_repeat_ngram_size"])

	assert.True(t, c.Healthy())
}

func TestBLIPClient_DescribeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("RuntimeError: CUDA out of memory"))
	}))
	defer srv.Close()

	c := NewBLIPClient(Config{BaseURL: srv.URL})
	_, err := c.Describe(context.Background(), DescribeRequest{Image: []byte{1}})
	require.Error(t, err)
	// 报文原样带出，供上层按文本分类
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

func TestBLIPClient_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	srv.Close() // 直接关掉，连接失败

	c := NewBLIPClient(Config{BaseURL: srv.URL})
	assert.False(t, c.Healthy())
}

func TestNewClient_Providers(t *testing.T) {
	c, err := NewClient(Config{Provider: "blip"})
	require.NoError(t, err)
	assert.Equal(t, "blip", c.Name())

	c, err = NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, "blip", c.Name())

	c, err = NewClient(Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	_, err = NewClient(Config{Provider: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported vision provider")
}
