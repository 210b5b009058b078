package store

import (
	"context"
	"errors"

	"github.com/sethtw/saga-sub000/internal/store/model"
)

// ErrNotFound is returned when a lookup finds no row. Context builders treat
// it as a degradation, not a failure.
var ErrNotFound = errors.New("not found")

// Repository is the main contract for the data layer.
type Repository interface {
	Campaigns() CampaignRepository
	Elements() ElementRepository
	Generated() GeneratedRepository
	Usage() UsageRepository

	Close() error
}

type CampaignRepository interface {
	// Get returns a campaign summary or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, campaign *model.Campaign) error
}

type ElementRepository interface {
	// Get returns one world element or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Element, error)
	Create(ctx context.Context, element *model.Element) error
	// ListByCampaign returns a campaign's elements ordered by creation time.
	ListByCampaign(ctx context.Context, campaignID string) ([]model.Element, error)
}

type GeneratedRepository interface {
	// Create persists one generated element. Invoked once per successful
	// generation; failures surface as persistence errors, distinct from
	// generation errors.
	Create(ctx context.Context, element *model.GeneratedElement) error
	GetByID(ctx context.Context, id string) (*model.GeneratedElement, error)
}

type UsageRepository interface {
	// Log stores one completed provider call for offline analysis.
	Log(ctx context.Context, row *model.UsageRow) error
	// Recent returns the last N usage rows.
	Recent(ctx context.Context, limit int) ([]model.UsageRow, error)
}
