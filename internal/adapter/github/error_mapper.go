package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

const serviceName = "github"

// MapHTTPError maps GitHub status codes onto the shared error taxonomy
// so the generic retry logic applies.
func MapHTTPError(statusCode int, body []byte) *httpapi.Error {
	message := parseErrorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &httpapi.Error{Kind: httpapi.KindAuthentication, Message: message, StatusCode: statusCode, Service: serviceName}

	case http.StatusTooManyRequests:
		return &httpapi.Error{Kind: httpapi.KindRateLimit, Message: message, StatusCode: statusCode, Retryable: true, Service: serviceName}

	case http.StatusNotFound:
		return &httpapi.Error{Kind: httpapi.KindNotFound, Message: message, StatusCode: statusCode, Service: serviceName}

	case http.StatusUnprocessableEntity:
		return &httpapi.Error{Kind: httpapi.KindInvalidRequest, Message: message, StatusCode: statusCode, Service: serviceName}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return &httpapi.Error{Kind: httpapi.KindServiceUnavailable, Message: message, StatusCode: statusCode, Retryable: true, Service: serviceName}

	default:
		return &httpapi.Error{Kind: httpapi.KindUnknown, Message: message, StatusCode: statusCode, Service: serviceName}
	}
}

// parseErrorMessage extracts a readable message from GitHub's error body.
func parseErrorMessage(statusCode int, body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		preview := string(body)
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		if preview == "" {
			return fmt.Sprintf("HTTP %d", statusCode)
		}
		return fmt.Sprintf("HTTP %d: %s", statusCode, preview)
	}

	if len(errResp.Errors) > 0 {
		var details []string
		for _, e := range errResp.Errors {
			if e.Message != "" {
				details = append(details, e.Message)
			} else if e.Field != "" {
				details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Code))
			}
		}
		if len(details) > 0 {
			return fmt.Sprintf("%s: %s", errResp.Message, strings.Join(details, "; "))
		}
	}

	return errResp.Message
}
