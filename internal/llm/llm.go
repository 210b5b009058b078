package llm

import (
	"context"
	"time"
)

// Options carries per-call tuning for a generation request.
type Options struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Result is the normalized output of one provider call.
type Result struct {
	Content      string
	Provider     string
	Model        string
	TokensUsed   int
	CostEstimate float64
	Latency      time.Duration
}

// Provider is implemented once per external text-generation service.
// Adapters translate every transport-level failure into the shared taxonomy;
// a raw provider error must never escape this boundary.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string, opts Options) (*Result, error)
	// Available reports whether the adapter holds the credentials it needs.
	// This is independent of the administrative Enabled flag in config.
	Available() bool
	EstimateTokens(text string) int
}

// EstimateTokens is the shared fallback used when a provider does not report
// usage: four characters per token. Acknowledged approximation; providers
// tokenize differently and this is only used for cost bookkeeping.
func EstimateTokens(text string) int {
	return len(text) / 4
}
