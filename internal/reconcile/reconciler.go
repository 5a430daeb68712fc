// Package reconcile maps model-proposed review comments onto the
// annotated patch structure, enforcing the platform rule that a
// multi-line comment range must stay within a single hunk.
package reconcile

import (
	"fmt"

	"github.com/akarpov87/patchnote/internal/domain"
	"github.com/akarpov87/patchnote/internal/patch"
)

// degradedBodyPrefix marks comments that lost their exact location.
const degradedBodyPrefix = "In this file: "

// reasonCrossHunk is recorded on ops degraded because start and end
// lines resolved to different hunks.
const reasonCrossHunk = "cross-hunk range"

// Failure describes a comment that could not be placed at all.
// These are reported, not retried: the positions came from model text
// output, so retrying the same input cannot succeed.
type Failure struct {
	Comment domain.ReviewComment
	Reason  string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s:%d: %s", f.Comment.File, f.Comment.Line, f.Reason)
}

// Reconcile resolves each comment against the index and returns the
// placement operations to execute plus the comments that were dropped.
//
// A comment whose start and end lines fall in different hunks is
// degraded rather than dropped: the range is discarded, the body is
// prefixed so the reader knows the location is approximate, and the
// comment is anchored at line 1 of the file. Line 1 is used because the
// model-proposed numbers may fall outside the real file bounds.
func Reconcile(index *patch.Index, comments []domain.ReviewComment) ([]domain.PlacementOp, []Failure) {
	var ops []domain.PlacementOp
	var failures []Failure

	for _, comment := range comments {
		line := clampLine(comment.Line)
		startLine := clampLine(comment.StartLine)

		if !index.HasFile(comment.File) {
			failures = append(failures, Failure{Comment: comment, Reason: "file not present in patch"})
			continue
		}

		lineHunk, ok := index.Resolve(comment.File, line)
		if !ok {
			failures = append(failures, Failure{Comment: comment, Reason: "line not part of any emitted hunk"})
			continue
		}

		if startLine != line {
			startHunk, ok := index.Resolve(comment.File, startLine)
			if !ok || startHunk != lineHunk {
				ops = append(ops, degradedOp(comment))
				continue
			}
		}

		op := domain.PlacementOp{
			File: comment.File,
			Line: line,
			Body: comment.Body,
		}
		if startLine != line {
			s := startLine
			op.StartLine = &s
		}
		ops = append(ops, op)
	}

	return ops, failures
}

// degradedOp builds the single-line fallback placement for a comment
// whose range violated the one-hunk constraint.
func degradedOp(comment domain.ReviewComment) domain.PlacementOp {
	return domain.PlacementOp{
		File:          comment.File,
		Line:          1,
		Body:          degradedBodyPrefix + comment.Body,
		Degraded:      true,
		DegradeReason: reasonCrossHunk,
	}
}

func clampLine(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
