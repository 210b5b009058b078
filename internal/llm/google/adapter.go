package google

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

const pn string = "google"

func init() {
	llm.Register(pn, NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := 45 * time.Second
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

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}
type GeminiRequest struct {
	Contents         []GeminiContent   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}
type GeminiResponse struct {
	Candidates    []GeminiCandidate `json:"candidates"`
	UsageMetadata *UsageMetadata    `json:"usageMetadata,omitempty"`
}

func (a *Adapter) Generate(ctx context.Context, prompt string, opts llm.Options) (*llm.Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.config.MaxTokens
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = a.config.Temperature
	}

	req := GeminiRequest{
		Contents: []GeminiContent{{
			Role:  "user",
			Parts: []GeminiPart{{Text: prompt}},
		}},
		GenerationConfig: &GenerationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(a.config.BaseURL, "/"),
		a.config.Model,
		a.config.APIKey,
	)

	start := time.Now()
	var resp GeminiResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, nil, req, &resp); err != nil {
		return nil, llm.NormalizeUpstream(a.config.Name, err)
	}
	latency := time.Since(start)

	if len(resp.Candidates) == 0 {
		return nil, llm.EmptyResponseError(a.config.Name)
	}
	if resp.Candidates[0].FinishReason == "SAFETY" || resp.Candidates[0].FinishReason == "PROHIBITED_CONTENT" {
		return nil, llm.ContentFilteredError(a.config.Name, "candidate blocked by safety settings", nil)
	}

	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}
	if strings.TrimSpace(text) == "" {
		return nil, llm.EmptyResponseError(a.config.Name)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = resp.UsageMetadata.TotalTokenCount
	}
	if tokens == 0 {
		tokens = a.EstimateTokens(prompt) + a.EstimateTokens(text)
	}

	return &llm.Result{
		Content:      text,
		Provider:     a.config.Name,
		Model:        a.config.Model,
		TokensUsed:   tokens,
		CostEstimate: float64(tokens) / 1000 * a.config.CostPer1K,
		Latency:      latency,
	}, nil
}
