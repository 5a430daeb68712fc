// Package httpapi holds the HTTP client infrastructure shared by the
// LLM provider adapters and the GitHub adapter: a typed error taxonomy,
// retry with exponential backoff, provider pricing, and call logging.
package httpapi

import "fmt"

// ErrorKind categorizes an API failure.
type ErrorKind int

const (
	KindAuthentication ErrorKind = iota
	KindRateLimit
	KindServiceUnavailable
	KindInvalidRequest
	KindTimeout
	KindNotFound
	KindUnknown
)

// String returns a human-readable description of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication error"
	case KindRateLimit:
		return "rate limit exceeded"
	case KindServiceUnavailable:
		return "service unavailable"
	case KindInvalidRequest:
		return "invalid request"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not found"
	default:
		return "unknown error"
	}
}

// Error is an API call failure with enough context to decide whether a
// retry is worthwhile.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Retryable  bool
	Service    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Service, e.Kind.String(), e.Message, e.StatusCode)
}

// Is matches errors by kind so callers can use errors.Is with a
// sentinel of the desired kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// RequestError wraps a failure to even build the HTTP request.
func RequestError(service string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: err.Error(), Service: service}
}

// TransportError wraps a network-level failure (timeout, connection
// reset). These are retryable.
func TransportError(service string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: err.Error(), Retryable: true, Service: service}
}
