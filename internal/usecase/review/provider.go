package review

import (
	"context"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
)

// Completion is the outcome of one model call.
type Completion struct {
	Model string
	Text  string
	Usage httpapi.Usage
	Cost  float64
}

// Provider is the capability the pipeline needs from an LLM backend:
// turn a prompt into text and price the call. One implementation per
// provider, selected once at startup.
type Provider interface {
	// Name identifies the provider ("openai", "anthropic").
	Name() string

	// Complete sends the prompt and returns the completion text with
	// its usage and cost.
	Complete(ctx context.Context, prompt string) (Completion, error)

	// EstimateCost prices a hypothetical usage without making a call.
	EstimateCost(usage httpapi.Usage) float64
}
