package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

func fastRetry() httpapi.RetryConfig {
	return httpapi.RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "review this", req.Messages[1].Content)
		assert.InDelta(t, 0.2, req.Temperature, 0.0001)

		json.NewEncoder(w).Encode(chatResponse{
			Model: "gpt-4o-2024-08-06",
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: `{"pr_comment": "LGTM"}`}},
			},
			Usage: chatUsage{PromptTokens: 120, CompletionTokens: 30},
		})
	}))
	defer server.Close()

	client := NewClient("sk-test", "gpt-4o", 0.2, "you are a reviewer")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(fastRetry())

	result, err := client.Complete(context.Background(), "review this")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-2024-08-06", result.Model)
	assert.Equal(t, `{"pr_comment": "LGTM"}`, result.Text)
	assert.Equal(t, 120, result.TokensIn)
	assert.Equal(t, 30, result.TokensOut)
}

func TestComplete_RetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"message": "Rate limit reached"}}`)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{
			Model:   "gpt-4o",
			Choices: []chatChoice{{Message: chatMessage{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := NewClient("sk-test", "gpt-4o", 0, "")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(fastRetry())

	result, err := client.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 2, attempts)
}

func TestComplete_AuthFailureNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key"}}`)
	}))
	defer server.Close()

	client := NewClient("sk-bad", "gpt-4o", 0, "")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(fastRetry())

	_, err := client.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var apiErr *httpapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, httpapi.KindAuthentication, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "Incorrect API key")
}

func TestComplete_EmptyChoicesFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Model: "gpt-4o"})
	}))
	defer server.Close()

	client := NewClient("sk-test", "gpt-4o", 0, "")
	client.SetBaseURL(server.URL)
	client.SetRetryConfig(fastRetry())

	_, err := client.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
