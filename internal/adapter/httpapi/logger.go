package httpapi

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Logger records API activity and operational events for the bot.
type Logger interface {
	// LogCall logs a completed API call with timing and cost info.
	LogCall(ctx context.Context, call CallLog)

	// LogError logs a failed API call.
	LogError(ctx context.Context, call ErrorLog)

	// LogInfo logs an operational event with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]any)

	// LogWarning logs a recoverable problem with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]any)
}

// CallLog describes one successful API round trip.
type CallLog struct {
	Service    string
	Model      string
	Duration   time.Duration
	Usage      Usage
	Cost       float64
	StatusCode int
}

// ErrorLog describes one failed API round trip.
type ErrorLog struct {
	Service    string
	Model      string
	Duration   time.Duration
	Err        error
	StatusCode int
	Retryable  bool
}

// LogLevel defines logging verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes structured logs via the standard logger.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
}

// NewDefaultLogger creates a logger with the given verbosity and format.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{level: level, format: format}
}

// LogCall logs a completed API call.
func (l *DefaultLogger) LogCall(ctx context.Context, call CallLog) {
	if l.level > LogLevelInfo {
		return
	}
	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","type":"call","service":"%s","model":"%s","duration_ms":%d,"tokens_in":%d,"tokens_out":%d,"cost":%.6f,"status_code":%d}`,
			call.Service, call.Model, call.Duration.Milliseconds(),
			call.Usage.TokensIn, call.Usage.TokensOut, call.Cost, call.StatusCode)
	} else {
		log.Printf("[INFO] %s/%s: call ok (duration=%.1fs, tokens=%d/%d, cost=$%.4f)",
			call.Service, call.Model, call.Duration.Seconds(),
			call.Usage.TokensIn, call.Usage.TokensOut, call.Cost)
	}
}

// LogError logs a failed API call.
func (l *DefaultLogger) LogError(ctx context.Context, call ErrorLog) {
	retryable := "non-retryable"
	if call.Retryable {
		retryable = "retryable"
	}
	if l.format == LogFormatJSON {
		log.Printf(`{"level":"error","type":"error","service":"%s","model":"%s","duration_ms":%d,"error":%q,"status_code":%d,"retryable":%t}`,
			call.Service, call.Model, call.Duration.Milliseconds(),
			call.Err.Error(), call.StatusCode, call.Retryable)
	} else {
		log.Printf("[ERROR] %s/%s: call failed (status=%d, %s): %v",
			call.Service, call.Model, call.StatusCode, retryable, call.Err)
	}
}

// LogInfo logs an operational event.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]any) {
	if l.level > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s%s", message, formatFields(fields))
}

// LogWarning logs a recoverable problem.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]any) {
	log.Printf("[WARN] %s%s", message, formatFields(fields))
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	out := ""
	for k, v := range fields {
		out += fmt.Sprintf(" %s=%v", k, v)
	}
	return out
}
