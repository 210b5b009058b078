package openai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/llm/openai"
)

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{
			"id": "chatcmpl-123",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "A grizzled dwarf."},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21}
		}`))
		if err != nil {
			return
		}
	}))
	defer server.Close()

	adapter, err := openai.NewAdapter(config.ProviderConfig{
		Name:      "openai-test",
		Type:      "openai",
		Model:     "gpt-4o-mini",
		APIKey:    "test-key",
		BaseURL:   server.URL + "/v1",
		CostPer1K: 0.002,
	})
	assert.NoError(t, err)

	res, err := adapter.Generate(context.Background(), "Describe a dwarf", llm.Options{})

	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, "A grizzled dwarf.", res.Content)
	assert.Equal(t, 21, res.TokensUsed)
	assert.InDelta(t, 21.0/1000*0.002, res.CostEstimate, 1e-9)
	assert.Equal(t, "openai-test", res.Provider)
}

func TestOpenAIGenerate_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		header map[string]string
		kind   llm.Kind
	}{
		{"auth", http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`, nil, llm.KindAuth},
		{"rate limit", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, map[string]string{"Retry-After": "3"}, llm.KindRateLimit},
		{"context length", http.StatusBadRequest, `{"error":{"message":"this model's maximum context length is exceeded","code":"context_length_exceeded"}}`, nil, llm.KindContextLength},
		{"server error", http.StatusInternalServerError, `boom`, nil, llm.KindGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			adapter, err := openai.NewAdapter(config.ProviderConfig{
				Name:    "openai-test",
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "test-key",
				BaseURL: server.URL + "/v1",
			})
			assert.NoError(t, err)

			_, err = adapter.Generate(context.Background(), "hi", llm.Options{})
			assert.Error(t, err)
			assert.Equal(t, tt.kind, llm.KindOf(err))
		})
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	adapter, _ := openai.NewAdapter(config.ProviderConfig{
		Name:    "openai-test",
		Type:    "openai",
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	})

	_, err := adapter.Generate(context.Background(), "hi", llm.Options{})
	assert.Equal(t, llm.KindEmptyResponse, llm.KindOf(err))
	assert.True(t, llm.IsRetryable(err))
}
