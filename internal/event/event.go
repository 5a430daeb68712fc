// Package event parses the GitHub Actions workflow event payload and
// classifies it, so the bot only reviews pull_request events.
package event

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Type is the kind of workflow event that triggered the run.
type Type string

const (
	TypePush        Type = "push"
	TypePullRequest Type = "pull_request"
	TypeComment     Type = "comment"
	TypeOther       Type = "other"
)

// PullRequest carries the PR fields the bot needs from the payload.
type PullRequest struct {
	Number int `json:"number"`
	Head   struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// Repository identifies the repo the event fired on.
type Repository struct {
	FullName string `json:"full_name"`
}

// Payload is the subset of the workflow event the bot inspects.
type Payload struct {
	Number      int              `json:"number"`
	HeadCommit  *json.RawMessage `json:"head_commit"`
	PullRequest *PullRequest     `json:"pull_request"`
	Comment     *json.RawMessage `json:"comment"`
	Repository  *Repository      `json:"repository"`
}

// Parse decodes a workflow event payload.
func Parse(r io.Reader) (*Payload, error) {
	var payload Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse event payload: %w", err)
	}
	return &payload, nil
}

// Load reads the payload from the file GITHUB_EVENT_PATH points at.
func Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event payload: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Type classifies the payload by which marker field is present.
func (p *Payload) Type() Type {
	switch {
	case p.HeadCommit != nil:
		return TypePush
	case p.PullRequest != nil:
		return TypePullRequest
	case p.Comment != nil:
		return TypeComment
	default:
		return TypeOther
	}
}
