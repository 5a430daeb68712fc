// Package reaper deletes the bot's previously posted comments so a
// re-review never stacks duplicates. Deletion is best-effort and
// idempotent: each pass re-lists, deletes what it owns, and stops once
// a listing comes back empty or the pass budget runs out.
package reaper

import (
	"context"
	"fmt"
)

// maxPasses bounds the list-delete loop. The comment APIs paginate, so
// one pass can miss comments created or shifted between pages; passes
// repeat until a listing shows nothing left of either kind.
const maxPasses = 16

// Comment is the minimal view of a platform comment the reaper needs.
type Comment struct {
	ID     int64
	Author string
}

// CommentStore lists and deletes the two comment kinds the bot posts:
// general PR (issue) comments and inline review comments.
type CommentStore interface {
	ListIssueComments(ctx context.Context) ([]Comment, error)
	DeleteIssueComment(ctx context.Context, id int64) error
	ListReviewComments(ctx context.Context) ([]Comment, error)
	DeleteReviewComment(ctx context.Context, id int64) error
}

// OwnerPredicate reports whether a comment author is the bot identity.
// Comments from any other author are never touched.
type OwnerPredicate func(author string) bool

// UsernamePredicate matches authors by exact login.
func UsernamePredicate(login string) OwnerPredicate {
	return func(author string) bool { return author == login }
}

// Logger receives per-comment delete failures. Optional.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]any)
}

// Reaper drives the delete-until-stable protocol.
type Reaper struct {
	store  CommentStore
	owns   OwnerPredicate
	logger Logger
}

// New constructs a Reaper. The logger may be nil.
func New(store CommentStore, owns OwnerPredicate, logger Logger) *Reaper {
	return &Reaper{store: store, owns: owns, logger: logger}
}

// Reap repeatedly lists and deletes the bot's comments until a pass
// finds none of either kind, or the pass budget is exhausted. Each
// delete is attempted independently: a failure is logged and the next
// pass retries whatever is still present. The passes are inherently
// serial; a pass's listing depends on the previous pass's deletions.
func (r *Reaper) Reap(ctx context.Context) error {
	for pass := 0; pass < maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		issueComments, err := r.store.ListIssueComments(ctx)
		if err != nil {
			return fmt.Errorf("list issue comments: %w", err)
		}
		r.deleteOwned(ctx, issueComments, r.store.DeleteIssueComment, "issue comment")

		reviewComments, err := r.store.ListReviewComments(ctx)
		if err != nil {
			return fmt.Errorf("list review comments: %w", err)
		}

		if len(issueComments) == 0 && len(reviewComments) == 0 {
			return nil
		}

		r.deleteOwned(ctx, reviewComments, r.store.DeleteReviewComment, "review comment")
	}
	return nil
}

func (r *Reaper) deleteOwned(ctx context.Context, comments []Comment, del func(context.Context, int64) error, kind string) {
	for _, comment := range comments {
		if !r.owns(comment.Author) {
			continue
		}
		if err := del(ctx, comment.ID); err != nil && r.logger != nil {
			r.logger.LogWarning(ctx, "failed to delete "+kind, map[string]any{
				"id":    comment.ID,
				"error": err.Error(),
			})
		}
	}
}
