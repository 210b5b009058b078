// Package v1 holds the HTTP handlers for the versioned API surface.
package v1

import (
	"context"

	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// GenerationService is the slice of the orchestrator the handlers need.
type GenerationService interface {
	GenerateObject(ctx context.Context, req api.GenerateRequest) (*api.GeneratedObject, error)
	ListObjectTypes() []api.ObjectTypeSummary
	GetObjectType(name string) (registry.TypeDefinition, error)
}

// ProviderGateway exposes provider status and usage accounting.
type ProviderGateway interface {
	ListProviders() []api.ProviderStatus
	TestAll(ctx context.Context) []api.ProviderTestResult
	UsageStats() api.UsageStats
}

// TemplateReloader drops cached prompt templates so the next render reloads
// them from disk.
type TemplateReloader interface {
	ClearCache()
}

// ElementStore lists a campaign's world elements so clients can browse for a
// context target.
type ElementStore interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]model.Element, error)
}

type Handler struct {
	service   GenerationService
	gateway   ProviderGateway
	templates TemplateReloader
	elements  ElementStore
}

func NewHandler(service GenerationService, gateway ProviderGateway, templates TemplateReloader, elements ElementStore) *Handler {
	return &Handler{
		service:   service,
		gateway:   gateway,
		templates: templates,
		elements:  elements,
	}
}
