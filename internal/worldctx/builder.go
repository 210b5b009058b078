package worldctx

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/cache"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

// Builder assembles a generation context. Building never fails hard: lookup
// errors are logged and the partially built context is returned, so a
// missing context target cannot block generation.
type Builder interface {
	Build(ctx context.Context, elementID, campaignID string) *Context
}

// Builders bundles the three policy variants.
type Builders struct {
	Hierarchical Builder
	Social       Builder
	Combat       Builder
}

func NewBuilders(repo store.Repository, cacheSvc cache.Service, logger *zap.Logger) *Builders {
	base := &hierarchical{repo: repo, cache: cacheSvc, logger: logger}
	return &Builders{
		Hierarchical: base,
		Social:       &social{base},
		Combat:       &combat{base},
	}
}

// ForPolicy returns the builder for the given context policy.
func (b *Builders) ForPolicy(policy registry.ContextPolicy) Builder {
	switch policy {
	case registry.PolicySocial:
		return b.Social
	case registry.PolicyCombat:
		return b.Combat
	default:
		return b.Hierarchical
	}
}

const campaignCacheTTL = 5 * time.Minute

type campaignSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type hierarchical struct {
	repo   store.Repository
	cache  cache.Service
	logger *zap.Logger
}

func (h *hierarchical) Build(ctx context.Context, elementID, campaignID string) *Context {
	wc, _ := h.build(ctx, elementID, campaignID)
	return wc
}

// build returns the context plus the full ancestor chain in top-to-bottom
// order, for the policy variants that classify the deepest element.
func (h *hierarchical) build(ctx context.Context, elementID string, campaignID string) (*Context, []model.Element) {
	wc := New()

	if campaignID != "" {
		if summary := h.campaignSummary(ctx, campaignID); summary != nil {
			wc.CampaignName = summary.Name
			wc.CampaignDescription = summary.Description
		}
	}

	if elementID == "" {
		return wc, nil
	}

	chain := h.ancestorChain(ctx, elementID)
	if len(chain) == 0 {
		return wc, nil
	}

	// Only the three outermost levels are mapped to named fields; deeper
	// levels are traversed but not surfaced. Intentional simplification
	// carried over from the original context format.
	const mappedLevels = 3
	for i, el := range chain {
		if i >= mappedLevels {
			break
		}
		switch i {
		case 0:
			wc.RegionName = el.Name
			wc.RegionDescription = el.Description
			wc.RegionType = el.Type
		case 1:
			wc.CityName = el.Name
			wc.CityDescription = el.Description
			wc.CityType = el.Type
		case 2:
			wc.AreaName = el.Name
			wc.AreaDescription = el.Description
			wc.AreaType = el.Type
		}
	}

	return wc, chain
}

func (h *hierarchical) campaignSummary(ctx context.Context, campaignID string) *campaignSummary {
	key := "campaign:" + campaignID

	var cached campaignSummary
	if h.cache != nil {
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached
		}
	}

	campaign, err := h.repo.Campaigns().Get(ctx, campaignID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		h.logger.Warn("campaign lookup failed, continuing without campaign fields",
			zap.String("campaign_id", campaignID), zap.Error(err))
		return nil
	}

	summary := &campaignSummary{Name: campaign.Name, Description: campaign.Description}
	if h.cache != nil {
		if err := h.cache.Set(ctx, key, summary, campaignCacheTTL); err != nil {
			h.logger.Debug("campaign cache write failed", zap.Error(err))
		}
	}
	return summary
}

// ancestorChain walks the parent links upward from elementID and returns the
// chain in top-to-bottom order (index 0 = outermost). Traversal is unbounded;
// a visited set guards against malformed cyclic data.
func (h *hierarchical) ancestorChain(ctx context.Context, elementID string) []model.Element {
	var upward []model.Element
	visited := make(map[string]bool)

	id := elementID
	for id != "" && !visited[id] {
		visited[id] = true

		el, err := h.repo.Elements().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			h.logger.Warn("element lookup failed during context assembly",
				zap.String("element_id", id), zap.Error(err))
			break
		}

		upward = append(upward, *el)
		if !el.ParentID.Valid {
			break
		}
		id = el.ParentID.String
	}

	// reverse into top-to-bottom order
	for i, j := 0, len(upward)-1; i < j; i, j = i+1, j-1 {
		upward[i], upward[j] = upward[j], upward[i]
	}
	return upward
}

var socialAtmospheres = map[string]string{
	"tavern": "Loud, crowded, smelling of ale and woodsmoke. Rumors travel fast here.",
	"shop":   "Cramped shelves, a watchful proprietor, and the quiet calculus of a sale.",
	"temple": "Hushed and reverent. Every word carries further than intended.",
	"palace": "Formal, guarded, and thick with protocol. Every conversation is overheard.",
	"other":  "An everyday setting where ordinary people go about their business.",
}

type social struct {
	*hierarchical
}

func (s *social) Build(ctx context.Context, elementID, campaignID string) *Context {
	wc, chain := s.build(ctx, elementID, campaignID)
	if len(chain) == 0 {
		return wc
	}

	// classify the deepest element by exact type match
	setting := chain[len(chain)-1].Type
	atmosphere, ok := socialAtmospheres[setting]
	if !ok {
		setting = "other"
		atmosphere = socialAtmospheres["other"]
	}

	wc.Extra["SOCIAL_SETTING"] = setting
	wc.Extra["ATMOSPHERE"] = atmosphere
	return wc
}

var combatTactics = map[string]string{
	"dungeon":  "Tight corridors, poor light, chokepoints. Retreat is costly.",
	"forest":   "Dense cover, ambush lines, uneven footing. Ranged sight is short.",
	"city":     "Crowds, rooftops, alleys. Collateral damage draws the watch.",
	"fortress": "Prepared defenses, patrols, kill zones. The defenders know the ground.",
	"other":    "Open terrain with no prepared positions on either side.",
}

// dangerousAreas drives the binary threat-level flag.
var dangerousAreas = map[string]bool{
	"dungeon":  true,
	"fortress": true,
}

type combat struct {
	*hierarchical
}

func (c *combat) Build(ctx context.Context, elementID, campaignID string) *Context {
	wc, chain := c.build(ctx, elementID, campaignID)
	if len(chain) == 0 {
		return wc
	}

	setting := chain[len(chain)-1].Type
	tactics, ok := combatTactics[setting]
	if !ok {
		setting = "other"
		tactics = combatTactics["other"]
	}

	wc.Extra["COMBAT_SETTING"] = setting
	wc.Extra["TACTICAL_NOTES"] = tactics
	if dangerousAreas[setting] {
		wc.Extra["THREAT_LEVEL"] = "high"
		wc.Extra["HIGH_THREAT"] = "true"
	} else {
		wc.Extra["THREAT_LEVEL"] = "standard"
	}
	return wc
}
