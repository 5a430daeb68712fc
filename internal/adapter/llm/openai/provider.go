package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
	"github.com/akarpov87/patchnote/internal/usecase/review"
)

const serviceName = "openai"

// Completer abstracts the HTTP client behaviour the provider needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Result, error)
}

// Provider implements the review Provider port for OpenAI.
type Provider struct {
	model   string
	client  Completer
	pricing *httpapi.Pricing
	logger  httpapi.Logger
}

// NewProvider constructs a Provider. The logger may be nil.
func NewProvider(model string, client Completer, pricing *httpapi.Pricing, logger httpapi.Logger) *Provider {
	return &Provider{model: model, client: client, pricing: pricing, logger: logger}
}

// Name identifies the provider.
func (p *Provider) Name() string { return serviceName }

// Complete sends the prompt and prices the resulting usage.
func (p *Provider) Complete(ctx context.Context, prompt string) (review.Completion, error) {
	if p.client == nil {
		return review.Completion{}, fmt.Errorf("openai client missing")
	}

	start := time.Now()
	result, err := p.client.Complete(ctx, prompt)
	if err != nil {
		p.logError(ctx, err, time.Since(start))
		return review.Completion{}, err
	}

	usage := httpapi.Usage{TokensIn: result.TokensIn, TokensOut: result.TokensOut}
	cost := p.EstimateCost(usage)

	if p.logger != nil {
		p.logger.LogCall(ctx, httpapi.CallLog{
			Service:  serviceName,
			Model:    result.Model,
			Duration: time.Since(start),
			Usage:    usage,
			Cost:     cost,
		})
	}

	return review.Completion{
		Model: result.Model,
		Text:  result.Text,
		Usage: usage,
		Cost:  cost,
	}, nil
}

// EstimateCost prices a usage against the configured model's rates.
func (p *Provider) EstimateCost(usage httpapi.Usage) float64 {
	return p.pricing.Cost(serviceName, p.model, usage)
}

func (p *Provider) logError(ctx context.Context, err error, duration time.Duration) {
	if p.logger == nil {
		return
	}
	p.logger.LogError(ctx, httpapi.ErrorLog{
		Service:   serviceName,
		Model:     p.model,
		Duration:  duration,
		Err:       err,
		Retryable: httpapi.Retryable(err),
	})
}
