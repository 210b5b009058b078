package ollama

import (
	"strings"
	"time"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/llm/openai"
)

func init() {
	llm.Register("ollama", NewAdapter)
}

// Adapter wraps the OpenAI adapter: Ollama exposes an OpenAI-compatible
// endpoint under /v1 and needs no API key.
type Adapter struct {
	llm.Provider
	config config.ProviderConfig
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(cfg.BaseURL, "/v1") {
		cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
	}
	if cfg.TimeoutMS == 0 {
		// local models are slow to answer cold
		cfg.TimeoutMS = int((120 * time.Second).Milliseconds())
	}

	inner, err := openai.NewAdapter(cfg)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		Provider: inner,
		config:   cfg,
	}, nil
}

// Available only requires a reachable base URL to be configured; there are
// no credentials to check.
func (a *Adapter) Available() bool { return a.config.BaseURL != "" }
