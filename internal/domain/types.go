package domain

import "strings"

// Review is the structured output expected from an LLM provider.
// The JSON shape is part of the prompt contract: a top-level PR comment
// plus zero or more per-line file comments.
type Review struct {
	PRComment    string          `json:"pr_comment"`
	FileComments []ReviewComment `json:"file_comments"`
}

// ReviewComment is a single model-proposed inline comment.
// Line and StartLine are new-file line numbers as printed in the
// annotated patch; StartLine <= Line is required by GitHub for ranges.
type ReviewComment struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	StartLine int    `json:"start_line"`
	Body      string `json:"comment"`
}

// PlacementOp is one resolved comment placement, ready to post.
// A degraded op has no StartLine and carries the reason the original
// range could not be honored.
type PlacementOp struct {
	File          string
	Line          int
	StartLine     *int
	Body          string
	Degraded      bool
	DegradeReason string
}

// NormalizeSummary rewrites a bare "LGTM" summary when inline findings
// exist, so the top-level comment does not contradict them.
func (r Review) NormalizeSummary() string {
	if len(r.FileComments) > 0 && strings.TrimSpace(r.PRComment) == "LGTM" {
		return "Found some issues"
	}
	return r.PRComment
}
