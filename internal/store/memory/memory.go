// Package memory provides an in-memory store.Repository used by tests and
// the benchmark harness.
package memory

import (
	"context"
	"sync"

	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

type Repository struct {
	mu        sync.RWMutex
	campaigns map[string]model.Campaign
	elements  map[string]model.Element
	generated map[string]model.GeneratedElement
	usage     []model.UsageRow
}

func New() *Repository {
	return &Repository{
		campaigns: make(map[string]model.Campaign),
		elements:  make(map[string]model.Element),
		generated: make(map[string]model.GeneratedElement),
	}
}

func (r *Repository) Close() error { return nil }

func (r *Repository) Campaigns() store.CampaignRepository  { return (*campaignRepo)(r) }
func (r *Repository) Elements() store.ElementRepository    { return (*elementRepo)(r) }
func (r *Repository) Generated() store.GeneratedRepository { return (*generatedRepo)(r) }
func (r *Repository) Usage() store.UsageRepository         { return (*usageRepo)(r) }

type campaignRepo Repository

func (r *campaignRepo) Get(_ context.Context, id string) (*model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r *campaignRepo) Create(_ context.Context, campaign *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaigns[campaign.ID] = *campaign
	return nil
}

type elementRepo Repository

func (r *elementRepo) Get(_ context.Context, id string) (*model.Element, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.elements[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (r *elementRepo) Create(_ context.Context, element *model.Element) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements[element.ID] = *element
	return nil
}

func (r *elementRepo) ListByCampaign(_ context.Context, campaignID string) ([]model.Element, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Element
	for _, e := range r.elements {
		if e.CampaignID == campaignID {
			out = append(out, e)
		}
	}
	return out, nil
}

type generatedRepo Repository

func (r *generatedRepo) Create(_ context.Context, element *model.GeneratedElement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated[element.ID] = *element
	return nil
}

func (r *generatedRepo) GetByID(_ context.Context, id string) (*model.GeneratedElement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.generated[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

type usageRepo Repository

func (r *usageRepo) Log(_ context.Context, row *model.UsageRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = append(r.usage, *row)
	return nil
}

func (r *usageRepo) Recent(_ context.Context, limit int) ([]model.UsageRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.usage) {
		limit = len(r.usage)
	}
	out := make([]model.UsageRow, 0, limit)
	for i := len(r.usage) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.usage[i])
	}
	return out, nil
}
