package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethtw/saga-sub000/internal/httpclient"
)

// Kind classifies a provider failure into the shared taxonomy.
type Kind string

const (
	KindAuth            Kind = "auth"
	KindRateLimit       Kind = "rate_limit"
	KindContextLength   Kind = "context_length"
	KindContentFiltered Kind = "content_filtered"
	KindEmptyResponse   Kind = "empty_response"
	KindNoProviders     Kind = "no_providers"
	KindGeneration      Kind = "generation"
)

// Error is the one error type adapters are allowed to return.
type Error struct {
	Kind      Kind
	Provider  string
	Message   string
	Retryable bool
	// optional hint from the provider, only set for rate limits
	RetryAfter time.Duration

	cause error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("llm: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("llm: %s [%s]: %s", e.Kind, e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func AuthError(provider, msg string, cause error) *Error {
	return &Error{Kind: KindAuth, Provider: provider, Message: msg, cause: cause}
}

func RateLimitError(provider, msg string, retryAfter time.Duration, cause error) *Error {
	return &Error{Kind: KindRateLimit, Provider: provider, Message: msg, Retryable: true, RetryAfter: retryAfter, cause: cause}
}

func ContextLengthError(provider, msg string, cause error) *Error {
	return &Error{Kind: KindContextLength, Provider: provider, Message: msg, cause: cause}
}

func ContentFilteredError(provider, msg string, cause error) *Error {
	return &Error{Kind: KindContentFiltered, Provider: provider, Message: msg, cause: cause}
}

func EmptyResponseError(provider string) *Error {
	return &Error{Kind: KindEmptyResponse, Provider: provider, Message: "provider returned an empty response", Retryable: true}
}

func NoProvidersError() *Error {
	return &Error{Kind: KindNoProviders, Message: "no providers available"}
}

func GenerationError(provider, msg string, retryable bool, cause error) *Error {
	return &Error{Kind: KindGeneration, Provider: provider, Message: msg, Retryable: retryable, cause: cause}
}

// KindOf returns the taxonomy kind of err, or "" if err is not an llm.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether err is a taxonomy error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// NormalizeUpstream maps a transport-level failure from httpclient into the
// taxonomy. Adapters call this for any error coming back from SendRequest;
// provider-specific refinements (body sniffing) layer on top of the status
// code mapping.
func NormalizeUpstream(provider string, err error) *Error {
	var upstream *httpclient.UpstreamError
	if !errors.As(err, &upstream) {
		// transport failure before a status code existed (DNS, timeout, ...)
		return GenerationError(provider, err.Error(), true, err)
	}

	body := strings.ToLower(string(upstream.Body))

	switch {
	case upstream.StatusCode == 401 || upstream.StatusCode == 403:
		return AuthError(provider, "authentication rejected by provider", err)
	case upstream.StatusCode == 429:
		return RateLimitError(provider, "provider rate limit exceeded", upstream.RetryAfter, err)
	case upstream.StatusCode == 413,
		upstream.StatusCode == 400 && mentionsContextLength(body):
		return ContextLengthError(provider, "prompt exceeds the model context window", err)
	case upstream.StatusCode == 400 && mentionsContentFilter(body):
		return ContentFilteredError(provider, "request blocked by provider content policy", err)
	case upstream.StatusCode >= 500:
		return GenerationError(provider, fmt.Sprintf("provider returned status %d", upstream.StatusCode), true, err)
	default:
		return GenerationError(provider, fmt.Sprintf("provider returned status %d", upstream.StatusCode), false, err)
	}
}

func mentionsContextLength(body string) bool {
	if !strings.Contains(body, "context") && !strings.Contains(body, "token") {
		return false
	}
	for _, marker := range []string{"length", "too long", "too large", "maximum"} {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

func mentionsContentFilter(body string) bool {
	for _, marker := range []string{"content_filter", "content filter", "safety", "policy", "harm"} {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
