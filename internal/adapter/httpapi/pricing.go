package httpapi

// Usage captures token consumption for one completion call.
type Usage struct {
	TokensIn  int
	TokensOut int
}

// ModelPricing holds per-million-token rates in USD.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// Pricing estimates the cost of a call from its token usage.
type Pricing struct {
	rates map[string]map[string]ModelPricing
}

// NewPricing returns a calculator loaded with current provider rates.
func NewPricing() *Pricing {
	return &Pricing{rates: buildPricingTable()}
}

// Cost returns the USD cost for the given provider, model and usage.
// Unknown provider/model combinations cost zero rather than guessing.
func (p *Pricing) Cost(provider, model string, usage Usage) float64 {
	models, ok := p.rates[provider]
	if !ok {
		return 0
	}
	rate, ok := models[model]
	if !ok {
		return 0
	}
	in := float64(usage.TokensIn) / 1_000_000.0 * rate.InputPer1M
	out := float64(usage.TokensOut) / 1_000_000.0 * rate.OutputPer1M
	return in + out
}

// buildPricingTable returns rates per provider and model.
// Sources:
// - OpenAI: https://openai.com/api/pricing/
// - Anthropic: https://claude.com/pricing
func buildPricingTable() map[string]map[string]ModelPricing {
	return map[string]map[string]ModelPricing{
		"openai": {
			"gpt-4o": {
				InputPer1M:  2.50,
				OutputPer1M: 10.00,
			},
			"gpt-4o-mini": {
				InputPer1M:  0.15,
				OutputPer1M: 0.60,
			},
			"gpt-4": {
				InputPer1M:  30.00,
				OutputPer1M: 60.00,
			},
			"o1": {
				InputPer1M:  15.00,
				OutputPer1M: 60.00,
			},
			"o3-mini": {
				InputPer1M:  1.10,
				OutputPer1M: 4.40,
			},
		},
		"anthropic": {
			"claude-opus-4-5-20251101": {
				InputPer1M:  5.00,
				OutputPer1M: 25.00,
			},
			"claude-sonnet-4-5-20250929": {
				InputPer1M:  3.00,
				OutputPer1M: 15.00,
			},
			"claude-haiku-4-5": {
				InputPer1M:  1.00,
				OutputPer1M: 5.00,
			},
			"claude-3-5-sonnet-20240620": {
				InputPer1M:  3.00,
				OutputPer1M: 15.00,
			},
			"claude-3-5-haiku-20241022": {
				InputPer1M:  0.80,
				OutputPer1M: 4.00,
			},
		},
	}
}
