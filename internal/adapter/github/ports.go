package github

import (
	"context"

	"github.com/akarpov87/patchnote/internal/usecase/reaper"
)

// CommentStore adapts the client to the reaper's port, flattening the
// two API payloads to the id/author view the reaper works on.
type CommentStore struct {
	client *Client
}

// NewCommentStore wraps a client for the reaper.
func NewCommentStore(client *Client) *CommentStore {
	return &CommentStore{client: client}
}

func (s *CommentStore) ListIssueComments(ctx context.Context) ([]reaper.Comment, error) {
	comments, err := s.client.ListIssueComments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reaper.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, reaper.Comment{ID: c.ID, Author: c.User.Login})
	}
	return out, nil
}

func (s *CommentStore) DeleteIssueComment(ctx context.Context, id int64) error {
	return s.client.DeleteIssueComment(ctx, id)
}

func (s *CommentStore) ListReviewComments(ctx context.Context) ([]reaper.Comment, error) {
	comments, err := s.client.ListReviewComments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reaper.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, reaper.Comment{ID: c.ID, Author: c.User.Login})
	}
	return out, nil
}

func (s *CommentStore) DeleteReviewComment(ctx context.Context, id int64) error {
	return s.client.DeleteReviewComment(ctx, id)
}
