package github

// REST API payloads for the comment surfaces the bot touches.
// See: https://docs.github.com/en/rest/issues/comments and
// https://docs.github.com/en/rest/pulls/comments

// User is the author of a comment.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"` // "User" or "Bot"
}

// IssueComment is a general comment on the PR conversation.
type IssueComment struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	User      User   `json:"user"`
	CreatedAt string `json:"created_at"`
}

// ReviewComment is an inline comment anchored to a diff line.
type ReviewComment struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	StartLine int    `json:"start_line"`
	User      User   `json:"user"`
	CreatedAt string `json:"created_at"`
}

// createIssueCommentRequest is the body for POST /issues/{n}/comments.
type createIssueCommentRequest struct {
	Body string `json:"body"`
}

// createReviewCommentRequest is the body for POST /pulls/{n}/comments.
// StartLine is only sent for multi-line ranges; GitHub rejects ranges
// whose start and end fall in different hunks.
type createReviewCommentRequest struct {
	Body      string `json:"body"`
	CommitID  string `json:"commit_id"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	StartLine *int   `json:"start_line,omitempty"`
	Side      string `json:"side"`
}

// ErrorResponse is GitHub's error payload.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
