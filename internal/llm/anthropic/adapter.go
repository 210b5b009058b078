package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/httpclient"
	"github.com/sethtw/saga-sub000/internal/llm"
)

func init() {
	llm.Register("anthropic", NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	timeout := 60 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (a *Adapter) Name() string  { return a.config.Name }
func (a *Adapter) Model() string { return a.config.Model }

func (a *Adapter) Available() bool { return a.config.APIKey != "" }

func (a *Adapter) EstimateTokens(text string) int { return llm.EstimateTokens(text) }

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
type Response struct {
	ID         string    `json:"id"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason"`
	Usage      Usage     `json:"usage"`
}

func (a *Adapter) headers() map[string]string {
	h := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": "2023-06-01",
	}
	if v, ok := a.config.Extra["version"]; ok {
		h["anthropic-version"] = v
	}
	return h
}

func (a *Adapter) Generate(ctx context.Context, prompt string, opts llm.Options) (*llm.Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req := Request{
		Model:       a.config.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.config.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}
	if req.Temperature == 0 {
		req.Temperature = a.config.Temperature
	}

	url := fmt.Sprintf("%s/messages", strings.TrimRight(a.config.BaseURL, "/"))

	start := time.Now()
	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, a.headers(), req, &resp); err != nil {
		return nil, llm.NormalizeUpstream(a.config.Name, err)
	}
	latency := time.Since(start)

	if resp.StopReason == "refusal" {
		return nil, llm.ContentFilteredError(a.config.Name, "model refused to answer", nil)
	}

	fullText := ""
	for _, c := range resp.Content {
		if c.Type == "text" {
			fullText += c.Text
		}
	}
	if strings.TrimSpace(fullText) == "" {
		return nil, llm.EmptyResponseError(a.config.Name)
	}

	tokens := resp.Usage.InputTokens + resp.Usage.OutputTokens
	if tokens == 0 {
		tokens = a.EstimateTokens(prompt) + a.EstimateTokens(fullText)
	}

	return &llm.Result{
		Content:      fullText,
		Provider:     a.config.Name,
		Model:        a.config.Model,
		TokensUsed:   tokens,
		CostEstimate: float64(tokens) / 1000 * a.config.CostPer1K,
		Latency:      latency,
	}, nil
}
