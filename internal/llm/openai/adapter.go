package openai

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
	llm.Register("openai", NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
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
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
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
	if req.Temperature == 0 {
		req.Temperature = a.config.Temperature
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(a.config.BaseURL, "/"))

	start := time.Now()
	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, headers, req, &resp); err != nil {
		return nil, llm.NormalizeUpstream(a.config.Name, err)
	}
	latency := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, llm.EmptyResponseError(a.config.Name)
	}
	if resp.Choices[0].FinishReason == "content_filter" {
		return nil, llm.ContentFilteredError(a.config.Name, "completion stopped by content filter", nil)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, llm.EmptyResponseError(a.config.Name)
	}

	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		tokens = a.EstimateTokens(prompt) + a.EstimateTokens(content)
	}

	return &llm.Result{
		Content:      content,
		Provider:     a.config.Name,
		Model:        a.config.Model,
		TokensUsed:   tokens,
		CostEstimate: float64(tokens) / 1000 * a.config.CostPer1K,
		Latency:      latency,
	}, nil
}
