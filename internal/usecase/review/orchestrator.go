// Package review orchestrates one pull-request review invocation:
// fetch diff, annotate, complete, reconcile, reap stale comments, post.
package review

import (
	"context"
	"fmt"

	"github.com/akarpov87/patchnote/internal/adapter/llm"
	"github.com/akarpov87/patchnote/internal/domain"
	"github.com/akarpov87/patchnote/internal/patch"
	"github.com/akarpov87/patchnote/internal/reconcile"
)

// DiffFetcher retrieves the raw unified diff for the pull request.
type DiffFetcher interface {
	FetchDiff(ctx context.Context) (string, error)
}

// CommentPoster posts the review output to the hosting platform.
type CommentPoster interface {
	// CreateIssueComment posts a top-level PR comment.
	CreateIssueComment(ctx context.Context, body string) error

	// CreateReviewComment posts one inline comment at the placement's
	// file and line, with an optional range start.
	CreateReviewComment(ctx context.Context, commitSHA string, op domain.PlacementOp) error
}

// Reaper deletes the bot's previously posted comments.
type Reaper interface {
	Reap(ctx context.Context) error
}

// Store optionally records one row per review invocation.
type Store interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// RunRecord is the persisted summary of one invocation.
type RunRecord struct {
	Owner          string
	Repo           string
	PullNumber     int
	Provider       string
	Model          string
	Cost           float64
	CommentsPosted int
	CommentsFailed int
}

// Logger receives operational events. Optional.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]any)
	LogWarning(ctx context.Context, message string, fields map[string]any)
}

// OrchestratorDeps captures the collaborators for the pipeline.
type OrchestratorDeps struct {
	Diff      DiffFetcher
	Provider  Provider
	Poster    CommentPoster
	Reaper    Reaper
	Store     Store  // optional
	Logger    Logger // optional
	SkipRules patch.SkipRules
}

// Orchestrator runs the synchronous review pipeline. The annotator and
// reconciler are computational; everything that blocks is behind the
// injected ports.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator constructs an Orchestrator and validates required deps.
func NewOrchestrator(deps OrchestratorDeps) (*Orchestrator, error) {
	if deps.Diff == nil {
		return nil, fmt.Errorf("diff fetcher missing")
	}
	if deps.Provider == nil {
		return nil, fmt.Errorf("provider missing")
	}
	if deps.Poster == nil {
		return nil, fmt.Errorf("comment poster missing")
	}
	if deps.Reaper == nil {
		return nil, fmt.Errorf("reaper missing")
	}
	if deps.SkipRules == nil {
		deps.SkipRules = patch.DefaultSkipRules()
	}
	return &Orchestrator{deps: deps}, nil
}

// Request identifies the pull request under review.
type Request struct {
	Owner      string
	Repo       string
	PullNumber int
	CommitSHA  string
}

// Result summarizes what the invocation did.
type Result struct {
	Summary          string
	Model            string
	Cost             float64
	CommentsPosted   int
	CommentsDegraded int
	CommentsDropped  int
	CommentsFailed   int
	SummaryPosted    bool
}

// ReviewPullRequest runs one review. Annotation and model JSON-parse
// failures abort the attempt; individual comment placement failures are
// isolated and never prevent the summary or sibling comments.
func (o *Orchestrator) ReviewPullRequest(ctx context.Context, req Request) (Result, error) {
	raw, err := o.deps.Diff.FetchDiff(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch diff: %w", err)
	}

	annotated, index, err := patch.Annotate(raw, o.deps.SkipRules)
	if err != nil {
		return Result{}, fmt.Errorf("annotate patch: %w", err)
	}

	completion, err := o.deps.Provider.Complete(ctx, BuildPRPrompt(annotated))
	if err != nil {
		return Result{}, fmt.Errorf("model completion: %w", err)
	}

	rev, err := llm.ParseReview(completion.Text)
	if err != nil {
		return Result{}, fmt.Errorf("model response: %w", err)
	}

	ops, dropped := reconcile.Reconcile(index, rev.FileComments)
	for _, failure := range dropped {
		o.logWarning(ctx, "dropping unplaceable comment", map[string]any{
			"file":   failure.Comment.File,
			"line":   failure.Comment.Line,
			"reason": failure.Reason,
		})
	}

	// Idempotent cleanup before re-posting.
	if err := o.deps.Reaper.Reap(ctx); err != nil {
		o.logWarning(ctx, "stale comment cleanup incomplete", map[string]any{"error": err.Error()})
	}

	result := Result{
		Summary:         rev.NormalizeSummary(),
		Model:           completion.Model,
		Cost:            completion.Cost,
		CommentsDropped: len(dropped),
	}

	// The summary is always attempted, even if every inline comment fails.
	summaryBody := BuildSummaryBody(result.Summary, o.deps.Provider.Name(), completion.Model, completion.Cost)
	if err := o.deps.Poster.CreateIssueComment(ctx, summaryBody); err != nil {
		o.logWarning(ctx, "failed to post PR summary", map[string]any{"error": err.Error()})
	} else {
		result.SummaryPosted = true
	}

	for _, op := range ops {
		if err := o.deps.Poster.CreateReviewComment(ctx, req.CommitSHA, op); err != nil {
			result.CommentsFailed++
			o.logWarning(ctx, "failed to post review comment", map[string]any{
				"file":  op.File,
				"line":  op.Line,
				"error": err.Error(),
			})
			continue
		}
		result.CommentsPosted++
		if op.Degraded {
			result.CommentsDegraded++
		}
	}

	o.logInfo(ctx, "review complete", map[string]any{
		"posted":   result.CommentsPosted,
		"degraded": result.CommentsDegraded,
		"dropped":  result.CommentsDropped,
		"failed":   result.CommentsFailed,
		"cost":     result.Cost,
	})

	if o.deps.Store != nil {
		record := RunRecord{
			Owner:          req.Owner,
			Repo:           req.Repo,
			PullNumber:     req.PullNumber,
			Provider:       o.deps.Provider.Name(),
			Model:          result.Model,
			Cost:           result.Cost,
			CommentsPosted: result.CommentsPosted,
			CommentsFailed: result.CommentsFailed,
		}
		if err := o.deps.Store.RecordRun(ctx, record); err != nil {
			o.logWarning(ctx, "failed to record run", map[string]any{"error": err.Error()})
		}
	}

	return result, nil
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]any) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]any) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
	}
}
