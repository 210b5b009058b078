package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/generation"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/pkg/api"
)

type stubService struct {
	obj *api.GeneratedObject
	err error
}

func (s *stubService) GenerateObject(context.Context, api.GenerateRequest) (*api.GeneratedObject, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.obj, nil
}

func (s *stubService) ListObjectTypes() []api.ObjectTypeSummary {
	return []api.ObjectTypeSummary{{Name: "character", DisplayName: "Character", Category: "character"}}
}

func (s *stubService) GetObjectType(name string) (registry.TypeDefinition, error) {
	if name != "character" {
		return registry.TypeDefinition{}, &registry.ObjectTypeError{Name: name}
	}
	return registry.TypeDefinition{Name: "character", DisplayName: "Character"}, nil
}

type stubGateway struct{}

func (stubGateway) ListProviders() []api.ProviderStatus {
	return []api.ProviderStatus{{Name: "openai", Model: "gpt-4o", Enabled: true, Available: true}}
}

func (stubGateway) TestAll(context.Context) []api.ProviderTestResult {
	return []api.ProviderTestResult{{Provider: "openai", OK: true}}
}

func (stubGateway) UsageStats() api.UsageStats {
	return api.UsageStats{TotalRequests: 3, TotalTokens: 120, SuccessRate: 1}
}

type stubReloader struct{ called bool }

func (r *stubReloader) ClearCache() { r.called = true }

type stubElements struct{}

func (stubElements) ListByCampaign(_ context.Context, campaignID string) ([]model.Element, error) {
	if campaignID != "camp-1" {
		return nil, nil
	}
	return []model.Element{
		{ID: "region-1", CampaignID: campaignID, Type: "region", Name: "The Ashreach"},
		{ID: "city-1", CampaignID: campaignID, Type: "city", Name: "Emberhold"},
	}, nil
}

func newTestServer(svc *stubService) (*Server, *stubReloader) {
	reloader := &stubReloader{}
	cfg := &config.Config{}
	return New(cfg, zap.NewNop(), svc, stubGateway{}, reloader, stubElements{}), reloader
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint_Success(t *testing.T) {
	svc := &stubService{obj: &api.GeneratedObject{
		ID:         "obj-1",
		ObjectType: "character",
		Data:       map[string]any{"name": "Grom"},
		Metadata:   api.GenerationMetadata{Provider: "openai", GeneratedAt: time.Now()},
	}}
	s, _ := newTestServer(svc)

	w := doRequest(t, s, http.MethodPost, "/api/v1/generate",
		`{"object_type": "character", "prompt": "a dwarf"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got api.GeneratedObject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "obj-1", got.ID)
	assert.Equal(t, "Grom", got.Data["name"])
}

func TestGenerateEndpoint_MissingFields(t *testing.T) {
	s, _ := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/generate", `{"object_type": "character"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Code)
	assert.Contains(t, resp.Fields, "prompt")
}

func TestGenerateEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown type", &registry.ObjectTypeError{Name: "spaceship"}, http.StatusNotFound, "unknown_object_type"},
		{"rate limited", llm.RateLimitError("openai", "slow down", 2*time.Second, nil), http.StatusTooManyRequests, "rate_limit"},
		{"context length", llm.ContextLengthError("openai", "too long", nil), http.StatusRequestEntityTooLarge, "context_length"},
		{"content filtered", llm.ContentFilteredError("openai", "refused", nil), http.StatusUnprocessableEntity, "content_filtered"},
		{"auth", llm.AuthError("openai", "bad key", nil), http.StatusBadGateway, "auth"},
		{"no providers", llm.NoProvidersError(), http.StatusBadGateway, "no_providers"},
		{"invalid payload", &generation.ValidationError{ObjectType: "character", Reason: "missing name"}, http.StatusUnprocessableEntity, "invalid_payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(&stubService{err: tt.err})

			w := doRequest(t, s, http.MethodPost, "/api/v1/generate",
				`{"object_type": "character", "prompt": "a dwarf"}`)

			require.Equal(t, tt.wantStatus, w.Code)
			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestGenerateEndpoint_RateLimitRetryAfter(t *testing.T) {
	s, _ := newTestServer(&stubService{
		err: llm.RateLimitError("openai", "slow down", 7*time.Second, nil),
	})

	w := doRequest(t, s, http.MethodPost, "/api/v1/generate",
		`{"object_type": "character", "prompt": "a dwarf"}`)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7000), resp.RetryAfterMS)
}

func TestObjectTypeEndpoints(t *testing.T) {
	s, _ := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodGet, "/api/v1/object-types", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"character"`)

	w = doRequest(t, s, http.MethodGet, "/api/v1/object-types/character", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/object-types/spaceship", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderAndUsageEndpoints(t *testing.T) {
	s, _ := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodGet, "/api/v1/providers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openai"`)

	w = doRequest(t, s, http.MethodGet, "/api/v1/providers/test", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/usage", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats api.UsageStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalRequests)
}

func TestCampaignElementsEndpoint(t *testing.T) {
	s, _ := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodGet, "/api/v1/campaigns/camp-1/elements", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Emberhold")

	w = doRequest(t, s, http.MethodGet, "/api/v1/campaigns/unknown/elements", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTemplateReloadEndpoint(t *testing.T) {
	s, reloader := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/templates/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reloader.called)
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(&stubService{})

	w := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
