package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

func TestMapHTTPError_Kinds(t *testing.T) {
	testCases := []struct {
		status    int
		kind      httpapi.ErrorKind
		retryable bool
	}{
		{401, httpapi.KindAuthentication, false},
		{403, httpapi.KindAuthentication, false},
		{404, httpapi.KindNotFound, false},
		{422, httpapi.KindInvalidRequest, false},
		{429, httpapi.KindRateLimit, true},
		{500, httpapi.KindServiceUnavailable, true},
		{502, httpapi.KindServiceUnavailable, true},
		{503, httpapi.KindServiceUnavailable, true},
		{418, httpapi.KindUnknown, false},
	}

	for _, tc := range testCases {
		err := MapHTTPError(tc.status, []byte(`{"message": "nope"}`))
		assert.Equal(t, tc.kind, err.Kind, "status %d", tc.status)
		assert.Equal(t, tc.retryable, err.Retryable, "status %d", tc.status)
		assert.Equal(t, "github", err.Service)
	}
}

func TestMapHTTPError_ValidationDetails(t *testing.T) {
	body := []byte(`{
		"message": "Validation Failed",
		"errors": [
			{"resource": "PullRequestReviewComment", "field": "start_line", "code": "invalid", "message": "Start line must be part of the same hunk as the line."}
		]
	}`)

	err := MapHTTPError(422, body)
	assert.Contains(t, err.Message, "Validation Failed")
	assert.Contains(t, err.Message, "same hunk")
}

func TestMapHTTPError_NonJSONBody(t *testing.T) {
	err := MapHTTPError(500, []byte("<html>gateway error</html>"))
	assert.Contains(t, err.Message, "HTTP 500")
	assert.Contains(t, err.Message, "<html>gateway error</html>")
}

func TestMapHTTPError_EmptyBody(t *testing.T) {
	err := MapHTTPError(503, nil)
	assert.Equal(t, "HTTP 503", err.Message)
}
