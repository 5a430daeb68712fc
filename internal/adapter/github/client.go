// Package github is an HTTP adapter for the GitHub REST API surface
// the bot needs: fetching a PR diff and listing, creating and deleting
// PR comments of both kinds.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
	apiVersion     = "2022-11-28"

	// diffMediaType asks GitHub to render the PR as a unified diff.
	diffMediaType = "application/vnd.github.v3.diff"
	jsonMediaType = "application/vnd.github+json"
)

// Client talks to the GitHub API for a single pull request.
type Client struct {
	token      string
	baseURL    string
	owner      string
	repo       string
	pullNumber int
	httpClient *http.Client
	retryConf  httpapi.RetryConfig
}

// NewClient creates a client scoped to one pull request. The token is
// a personal access token or GITHUB_TOKEN from Actions.
func NewClient(token, owner, repo string, pullNumber int) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		owner:      owner,
		repo:       repo,
		pullNumber: pullNumber,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf: httpapi.RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 2 * time.Second,
			MaxBackoff:     32 * time.Second,
			Multiplier:     2.0,
		},
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetRetryConfig overrides the retry schedule.
func (c *Client) SetRetryConfig(conf httpapi.RetryConfig) {
	c.retryConf = conf
}

// do executes one API call with retry, returning the response body and
// the response headers. accept chooses the media type; body may be nil.
func (c *Client) do(ctx context.Context, method, url, accept string, body []byte) ([]byte, http.Header, error) {
	var respBody []byte
	var respHeader http.Header

	err := httpapi.Retry(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, reqErr := http.NewRequestWithContext(ctx, method, url, reader)
		if reqErr != nil {
			return httpapi.RequestError(serviceName, reqErr)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			return httpapi.TransportError(serviceName, callErr)
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &httpapi.Error{
				Kind:       httpapi.KindUnknown,
				Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
				StatusCode: resp.StatusCode,
				Retryable:  resp.StatusCode >= 500,
				Service:    serviceName,
			}
		}

		if resp.StatusCode >= 400 {
			return MapHTTPError(resp.StatusCode, data)
		}

		respBody = data
		respHeader = resp.Header
		return nil
	}, c.retryConf)

	if err != nil {
		return nil, nil, err
	}
	return respBody, respHeader, nil
}

// getJSON fetches url and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) (http.Header, error) {
	body, header, err := c.do(ctx, http.MethodGet, url, jsonMediaType, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return header, nil
}

func (c *Client) pullURL(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s/pulls/%d%s", c.baseURL, c.owner, c.repo, c.pullNumber, suffix)
}

func (c *Client) issueURL(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s/issues/%d%s", c.baseURL, c.owner, c.repo, c.pullNumber, suffix)
}
