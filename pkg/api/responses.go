package api

import "time"

// GeneratedObject is the envelope returned for every successful generation.
// It is created once and never mutated afterwards; ownership of the payload
// passes to the persistence layer immediately after creation.
type GeneratedObject struct {
	ID         string             `json:"id"`
	ObjectType string             `json:"object_type"`
	Data       map[string]any     `json:"data"`
	Metadata   GenerationMetadata `json:"metadata"`
}

// GenerationMetadata records the provenance of a generated object.
type GenerationMetadata struct {
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	CostEstimate float64   `json:"cost_estimate"`
	LatencyMS    int64     `json:"latency_ms"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// ObjectTypeSummary is the listing shape for registered object types.
type ObjectTypeSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Plural      string `json:"plural"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

// ProviderStatus is a point-in-time snapshot of one configured provider.
// Enabled is administrative configuration; Available reflects whether the
// adapter holds the credentials it needs.
type ProviderStatus struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
}

// ProviderTestResult reports one provider's response to the diagnostic ping.
type ProviderTestResult struct {
	Provider  string `json:"provider"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// ProviderUsage is the per-provider slice of the aggregate usage stats.
type ProviderUsage struct {
	Requests int     `json:"requests"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// UsageStats aggregates the gateway's retained usage metrics on demand.
type UsageStats struct {
	TotalRequests int                      `json:"total_requests"`
	TotalTokens   int                      `json:"total_tokens"`
	TotalCost     float64                  `json:"total_cost"`
	SuccessRate   float64                  `json:"success_rate"`
	AvgLatencyMS  float64                  `json:"avg_latency_ms"`
	ByProvider    map[string]ProviderUsage `json:"by_provider"`
}

// ErrorResponse is the standard error shape for the HTTP surface.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// set for retryable upstream failures when the provider hinted at a delay
	RetryAfterMS int64 `json:"retry_after_ms,omitempty"`
	// per-field messages for request binding failures
	Fields map[string]string `json:"fields,omitempty"`
}
