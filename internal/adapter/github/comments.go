package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/akarpov87/patchnote/internal/domain"
)

// maxPaginationPages bounds Link-header walks; 100 comments per page
// times this limit is far beyond any real PR.
const maxPaginationPages = 50

// FetchDiff retrieves the pull request rendered as a unified diff.
func (c *Client) FetchDiff(ctx context.Context) (string, error) {
	body, _, err := c.do(ctx, http.MethodGet, c.pullURL(""), diffMediaType, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListIssueComments fetches all general comments on the PR conversation.
func (c *Client) ListIssueComments(ctx context.Context) ([]IssueComment, error) {
	var all []IssueComment
	err := c.paginate(ctx, c.issueURL("/comments?per_page=100"), func(body []byte) error {
		var page []IssueComment
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

// ListReviewComments fetches all inline review comments on the PR.
func (c *Client) ListReviewComments(ctx context.Context) ([]ReviewComment, error) {
	var all []ReviewComment
	err := c.paginate(ctx, c.pullURL("/comments?per_page=100"), func(body []byte) error {
		var page []ReviewComment
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		all = append(all, page...)
		return nil
	})
	return all, err
}

// DeleteIssueComment deletes one conversation comment by id.
func (c *Client) DeleteIssueComment(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/comments/%d", c.baseURL, c.owner, c.repo, id)
	_, _, err := c.do(ctx, http.MethodDelete, url, jsonMediaType, nil)
	return err
}

// DeleteReviewComment deletes one inline review comment by id.
func (c *Client) DeleteReviewComment(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%d", c.baseURL, c.owner, c.repo, id)
	_, _, err := c.do(ctx, http.MethodDelete, url, jsonMediaType, nil)
	return err
}

// CreateIssueComment posts a top-level comment on the PR conversation.
func (c *Client) CreateIssueComment(ctx context.Context, body string) error {
	payload, err := json.Marshal(createIssueCommentRequest{Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	_, _, err = c.do(ctx, http.MethodPost, c.issueURL("/comments"), jsonMediaType, payload)
	return err
}

// CreateReviewComment posts one inline comment for a placement. The
// range start is only sent when the placement carries one.
func (c *Client) CreateReviewComment(ctx context.Context, commitSHA string, op domain.PlacementOp) error {
	payload, err := json.Marshal(createReviewCommentRequest{
		Body:      op.Body,
		CommitID:  commitSHA,
		Path:      op.File,
		Line:      op.Line,
		StartLine: op.StartLine,
		Side:      "RIGHT",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	_, _, err = c.do(ctx, http.MethodPost, c.pullURL("/comments"), jsonMediaType, payload)
	return err
}

// paginate walks a listing endpoint via Link headers, feeding each page
// body to collect. Visited-URL tracking guards against header loops.
func (c *Client) paginate(ctx context.Context, firstURL string, collect func(body []byte) error) error {
	visited := make(map[string]bool)
	nextURL := firstURL

	for pages := 0; nextURL != ""; pages++ {
		if pages >= maxPaginationPages {
			return fmt.Errorf("pagination limit exceeded (%d pages)", maxPaginationPages)
		}
		if visited[nextURL] {
			return fmt.Errorf("pagination loop detected: URL already visited")
		}
		visited[nextURL] = true

		body, header, err := c.do(ctx, http.MethodGet, nextURL, jsonMediaType, nil)
		if err != nil {
			return err
		}
		if err := collect(body); err != nil {
			return err
		}

		nextURL = parseNextLink(header.Get("Link"))
		if nextURL != "" && !strings.HasPrefix(nextURL, c.baseURL) {
			return fmt.Errorf("unexpected pagination host in Link header")
		}
	}
	return nil
}

// nextLinkRe pulls the rel="next" target out of a Link header.
var nextLinkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

func parseNextLink(header string) string {
	if header == "" {
		return ""
	}
	m := nextLinkRe.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}
