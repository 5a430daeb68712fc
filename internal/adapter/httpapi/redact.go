package httpapi

import (
	"fmt"
	"regexp"
)

// MaxLoggedBodyLength bounds how much of a response body lands in logs.
// Model responses can embed user source code; only a preview is logged.
const MaxLoggedBodyLength = 200

// TruncateForLogging returns a log-safe preview of a response body.
func TruncateForLogging(body string) string {
	if len(body) <= MaxLoggedBodyLength {
		return body
	}
	return body[:MaxLoggedBodyLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(body))
}

var secretParamRe = regexp.MustCompile(`(key|apiKey|api_key|token|access_token)=[^&"\s]+`)

// RedactURLSecrets strips API keys and tokens from URLs that leak into
// error messages via query parameters.
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	return secretParamRe.ReplaceAllString(text, "$1=[REDACTED]")
}

// RedactAPIKey shows only the last 4 characters of an API key.
func RedactAPIKey(key string) string {
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", key[len(key)-4:])
}
