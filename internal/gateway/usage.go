package gateway

import (
	"sync"
	"time"

	"github.com/sethtw/saga-sub000/pkg/api"
)

// UsageMetric records one provider call. The log is process-lifetime only;
// durable history goes through the ingestor.
type UsageMetric struct {
	ID        string
	Provider  string
	Model     string
	Tokens    int
	Cost      float64
	Latency   time.Duration
	Timestamp time.Time
	Success   bool
	ErrorKind string
}

// usageLog is a bounded FIFO of the most recent metrics. Oldest entries are
// evicted once the retention cap is exceeded.
type usageLog struct {
	mu      sync.Mutex
	entries []UsageMetric
	cap     int
}

func newUsageLog(retention int) *usageLog {
	if retention <= 0 {
		retention = 1000
	}
	return &usageLog{cap: retention}
}

func (l *usageLog) Append(m UsageMetric) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, m)
	if overflow := len(l.entries) - l.cap; overflow > 0 {
		l.entries = l.entries[overflow:]
	}
}

func (l *usageLog) Snapshot() []UsageMetric {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]UsageMetric, len(l.entries))
	copy(out, l.entries)
	return out
}

// Stats aggregates the retained entries on demand.
func (l *usageLog) Stats() api.UsageStats {
	entries := l.Snapshot()

	stats := api.UsageStats{
		ByProvider: make(map[string]api.ProviderUsage),
	}
	if len(entries) == 0 {
		return stats
	}

	var successes int
	var latencySum time.Duration
	for _, m := range entries {
		stats.TotalRequests++
		stats.TotalTokens += m.Tokens
		stats.TotalCost += m.Cost
		latencySum += m.Latency
		if m.Success {
			successes++
		}

		p := stats.ByProvider[m.Provider]
		p.Requests++
		p.Tokens += m.Tokens
		p.Cost += m.Cost
		stats.ByProvider[m.Provider] = p
	}

	stats.SuccessRate = float64(successes) / float64(len(entries))
	stats.AvgLatencyMS = float64(latencySum.Milliseconds()) / float64(len(entries))
	return stats
}
