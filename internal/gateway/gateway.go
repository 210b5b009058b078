// Package gateway owns the live provider adapters: selection, fallback,
// rate limiting, and usage accounting.
package gateway

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// Gateway holds the adapters that reported themselves available at
// construction time. The live set is immutable afterwards; only the usage
// log mutates under concurrent requests.
type Gateway struct {
	logger      *zap.Logger
	defaultName string

	// fixed enumeration order: config order
	order     []string
	configs   map[string]config.ProviderConfig
	providers map[string]llm.Provider
	limiters  map[string]*rate.Limiter

	usage    *usageLog
	ingestor Ingestor
}

// New builds adapters for every configured provider and keeps the ones that
// report themselves available. Construction never fails: a provider that
// cannot be built is logged and skipped.
func New(cfg *config.Config, ingestor Ingestor, logger *zap.Logger) *Gateway {
	g := &Gateway{
		logger:      logger,
		defaultName: cfg.DefaultProvider,
		configs:     make(map[string]config.ProviderConfig),
		providers:   make(map[string]llm.Provider),
		limiters:    make(map[string]*rate.Limiter),
		usage:       newUsageLog(cfg.Usage.Retention),
		ingestor:    ingestor,
	}

	for _, pc := range cfg.Providers {
		g.order = append(g.order, pc.Name)
		g.configs[pc.Name] = pc

		p, err := llm.Build(pc)
		if err != nil {
			logger.Warn("failed to build provider adapter",
				zap.String("provider", pc.Name), zap.String("type", pc.Type), zap.Error(err))
			continue
		}
		if !p.Available() {
			logger.Info("provider configured but not available, skipping",
				zap.String("provider", pc.Name))
			continue
		}

		g.providers[pc.Name] = p
		if cfg.RateLimit.RequestsPerSecond > 0 {
			g.limiters[pc.Name] = rate.NewLimiter(
				rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		}
		logger.Info("provider registered",
			zap.String("provider", pc.Name), zap.String("model", pc.Model),
			zap.Bool("enabled", pc.Enabled))
	}

	return g
}

// Generate selects a provider and executes one call. The error from the
// adapter propagates unchanged; the gateway records metrics but never
// retries.
func (g *Gateway) Generate(ctx context.Context, prompt, providerName string, opts llm.Options) (*llm.Result, error) {
	p, err := g.selectProvider(providerName)
	if err != nil {
		return nil, err
	}

	if lim, ok := g.limiters[p.Name()]; ok && !lim.Allow() {
		rlErr := llm.RateLimitError(p.Name(), "provider request budget exhausted", 0, nil)
		g.record(p, nil, rlErr)
		return nil, rlErr
	}

	res, err := p.Generate(ctx, prompt, opts)
	g.record(p, res, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// selectProvider applies the precedence: explicit request if live and
// enabled, else the configured default, else the first enabled live
// provider in enumeration order.
func (g *Gateway) selectProvider(name string) (llm.Provider, error) {
	if name != "" {
		if p, ok := g.usable(name); ok {
			return p, nil
		}
		g.logger.Debug("requested provider not usable, falling back",
			zap.String("provider", name))
	}

	if p, ok := g.usable(g.defaultName); ok {
		return p, nil
	}

	for _, candidate := range g.order {
		if p, ok := g.usable(candidate); ok {
			return p, nil
		}
	}

	return nil, llm.NoProvidersError()
}

func (g *Gateway) usable(name string) (llm.Provider, bool) {
	p, live := g.providers[name]
	if !live {
		return nil, false
	}
	if !g.configs[name].Enabled {
		return nil, false
	}
	return p, true
}

func (g *Gateway) record(p llm.Provider, res *llm.Result, callErr error) {
	m := UsageMetric{
		ID:        uuid.New().String(),
		Provider:  p.Name(),
		Model:     p.Model(),
		Timestamp: time.Now(),
	}
	if callErr != nil {
		m.ErrorKind = string(llm.KindOf(callErr))
	} else {
		m.Success = true
		m.Tokens = res.TokensUsed
		m.Cost = res.CostEstimate
		m.Latency = res.Latency
	}
	g.usage.Append(m)

	if g.ingestor != nil {
		row := &model.UsageRow{
			ID:         m.ID,
			Provider:   m.Provider,
			Model:      m.Model,
			Tokens:     m.Tokens,
			CostMicros: int64(m.Cost * 1_000_000),
			LatencyMS:  m.Latency.Milliseconds(),
			Success:    m.Success,
			CreatedAt:  m.Timestamp,
		}
		if m.ErrorKind != "" {
			row.ErrorKind = sql.NullString{String: m.ErrorKind, Valid: true}
		}
		g.ingestor.Log(row)
	}
}

// ListProviders snapshots availability and the administrative enabled flag
// for every configured provider, in enumeration order.
func (g *Gateway) ListProviders() []api.ProviderStatus {
	out := make([]api.ProviderStatus, 0, len(g.order))
	for _, name := range g.order {
		pc := g.configs[name]
		_, live := g.providers[name]
		out = append(out, api.ProviderStatus{
			Name:      name,
			Model:     pc.Model,
			Enabled:   pc.Enabled,
			Available: live,
		})
	}
	return out
}

// UsageStats aggregates the in-memory metric log on demand.
func (g *Gateway) UsageStats() api.UsageStats {
	return g.usage.Stats()
}

const testPrompt = "Reply with the single word: ready"

// TestAll issues a minimal prompt to every live adapter and reports
// per-provider success or error. It never returns an error itself.
func (g *Gateway) TestAll(ctx context.Context) []api.ProviderTestResult {
	var out []api.ProviderTestResult
	for _, name := range g.order {
		p, live := g.providers[name]
		if !live {
			continue
		}

		start := time.Now()
		res, err := p.Generate(ctx, testPrompt, llm.Options{MaxTokens: 16})
		g.record(p, res, err)

		result := api.ProviderTestResult{
			Provider:  name,
			LatencyMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.OK = true
		}
		out = append(out, result)
	}
	return out
}
