// Package openai adapts the OpenAI Chat Completions API to the review
// provider port.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 120 * time.Second
)

// Client is an HTTP client for the Chat Completions endpoint.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	system      string
	baseURL     string
	httpClient  *http.Client
	retryConf   httpapi.RetryConfig
}

// NewClient creates an OpenAI client for the given model.
func NewClient(apiKey, model string, temperature float64, system string) *Client {
	return &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		system:      system,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		retryConf:   httpapi.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetRetryConfig overrides the retry schedule.
func (c *Client) SetRetryConfig(conf httpapi.RetryConfig) {
	c.retryConf = conf
}

// Result is the raw outcome of one completion call.
type Result struct {
	Model     string
	Text      string
	TokensIn  int
	TokensOut int
}

// Complete sends the prompt and returns the completion text with usage.
func (c *Client) Complete(ctx context.Context, prompt string) (*Result, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"

	var parsed chatResponse
	err = httpapi.Retry(ctx, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return httpapi.RequestError(serviceName, reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			return httpapi.TransportError(serviceName, callErr)
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return httpapi.TransportError(serviceName, readErr)
		}

		if resp.StatusCode >= 400 {
			return mapErrorResponse(resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, &parsed); err != nil {
			return &httpapi.Error{
				Kind:    httpapi.KindUnknown,
				Message: fmt.Sprintf("failed to parse response: %v", err),
				Service: serviceName,
			}
		}
		return nil
	}, c.retryConf)

	if err != nil {
		return nil, err
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &Result{
		Model:     parsed.Model,
		Text:      parsed.Choices[0].Message.Content,
		TokensIn:  parsed.Usage.PromptTokens,
		TokensOut: parsed.Usage.CompletionTokens,
	}, nil
}

// mapErrorResponse maps OpenAI error payloads onto the shared taxonomy.
func mapErrorResponse(statusCode int, body []byte) *httpapi.Error {
	message := fmt.Sprintf("HTTP %d", statusCode)
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &httpapi.Error{Kind: httpapi.KindAuthentication, Message: message, StatusCode: statusCode, Service: serviceName}
	case http.StatusTooManyRequests:
		return &httpapi.Error{Kind: httpapi.KindRateLimit, Message: message, StatusCode: statusCode, Retryable: true, Service: serviceName}
	case http.StatusNotFound:
		return &httpapi.Error{Kind: httpapi.KindNotFound, Message: message, StatusCode: statusCode, Service: serviceName}
	case http.StatusBadRequest:
		return &httpapi.Error{Kind: httpapi.KindInvalidRequest, Message: message, StatusCode: statusCode, Service: serviceName}
	default:
		if statusCode >= 500 {
			return &httpapi.Error{Kind: httpapi.KindServiceUnavailable, Message: message, StatusCode: statusCode, Retryable: true, Service: serviceName}
		}
		return &httpapi.Error{Kind: httpapi.KindUnknown, Message: message, StatusCode: statusCode, Service: serviceName}
	}
}
