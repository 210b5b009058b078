package worldctx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/store/memory"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

// seeds region -> city -> district -> tavern and returns the repo.
func seedWorld(t *testing.T) *memory.Repository {
	t.Helper()
	repo := memory.New()
	ctx := context.Background()

	assert.NoError(t, repo.Campaigns().Create(ctx, &model.Campaign{
		ID:          "camp-1",
		Name:        "Shards of Vethmar",
		Description: "A dying empire clings to its borders.",
	}))

	elements := []model.Element{
		{ID: "region-1", CampaignID: "camp-1", Type: "region", Name: "The Vethmar Reach", Description: "Windswept highlands."},
		{ID: "city-1", CampaignID: "camp-1", ParentID: sql.NullString{String: "region-1", Valid: true}, Type: "city", Name: "Emberfall", Description: "A trade city on the old road."},
		{ID: "district-1", CampaignID: "camp-1", ParentID: sql.NullString{String: "city-1", Valid: true}, Type: "district", Name: "Lowmarket", Description: "Stalls and smoke."},
		{ID: "tavern-1", CampaignID: "camp-1", ParentID: sql.NullString{String: "district-1", Valid: true}, Type: "tavern", Name: "The Cracked Flagon", Description: "A dockside tavern."},
	}
	for i := range elements {
		assert.NoError(t, repo.Elements().Create(ctx, &elements[i]))
	}
	return repo
}

func TestHierarchical_MapsTopThreeLevels(t *testing.T) {
	repo := seedWorld(t)
	b := NewBuilders(repo, nil, zap.NewNop())

	// 4-level chain: only the three outermost levels surface as fields
	wc := b.Hierarchical.Build(context.Background(), "tavern-1", "camp-1")

	assert.Equal(t, "Shards of Vethmar", wc.CampaignName)
	assert.Equal(t, "The Vethmar Reach", wc.RegionName)
	assert.Equal(t, "region", wc.RegionType)
	assert.Equal(t, "Emberfall", wc.CityName)
	assert.Equal(t, "Lowmarket", wc.AreaName)

	// the tavern itself is traversed but not mapped
	fields := wc.Flatten()
	for _, v := range fields {
		assert.NotEqual(t, "The Cracked Flagon", v)
	}
}

func TestHierarchical_MissingCampaignDegrades(t *testing.T) {
	repo := seedWorld(t)
	b := NewBuilders(repo, nil, zap.NewNop())

	wc := b.Hierarchical.Build(context.Background(), "city-1", "no-such-campaign")

	assert.Empty(t, wc.CampaignName)
	assert.Equal(t, "The Vethmar Reach", wc.RegionName)
	assert.Equal(t, "Emberfall", wc.CityName)
}

func TestHierarchical_MissingElementDegrades(t *testing.T) {
	repo := seedWorld(t)
	b := NewBuilders(repo, nil, zap.NewNop())

	wc := b.Hierarchical.Build(context.Background(), "no-such-element", "camp-1")

	assert.Equal(t, "Shards of Vethmar", wc.CampaignName)
	assert.Empty(t, wc.RegionName)
}

func TestSocial_ClassifiesDeepestElement(t *testing.T) {
	repo := seedWorld(t)
	b := NewBuilders(repo, nil, zap.NewNop())

	wc := b.Social.Build(context.Background(), "tavern-1", "camp-1")

	assert.Equal(t, "tavern", wc.Extra["SOCIAL_SETTING"])
	assert.NotEmpty(t, wc.Extra["ATMOSPHERE"])
}

func TestSocial_UnknownTypeFallsBackToOther(t *testing.T) {
	repo := seedWorld(t)
	b := NewBuilders(repo, nil, zap.NewNop())

	wc := b.Social.Build(context.Background(), "district-1", "camp-1")

	assert.Equal(t, "other", wc.Extra["SOCIAL_SETTING"])
}

func TestCombat_ThreatLevel(t *testing.T) {
	repo := seedWorld(t)
	ctx := context.Background()
	assert.NoError(t, repo.Elements().Create(ctx, &model.Element{
		ID: "dungeon-1", CampaignID: "camp-1",
		ParentID: sql.NullString{String: "region-1", Valid: true},
		Type:     "dungeon", Name: "The Sunken Vault",
	}))

	b := NewBuilders(repo, nil, zap.NewNop())

	wc := b.Combat.Build(ctx, "dungeon-1", "camp-1")
	assert.Equal(t, "dungeon", wc.Extra["COMBAT_SETTING"])
	assert.Equal(t, "high", wc.Extra["THREAT_LEVEL"])
	assert.Equal(t, "true", wc.Extra["HIGH_THREAT"])

	wc = b.Combat.Build(ctx, "city-1", "camp-1")
	assert.Equal(t, "city", wc.Extra["COMBAT_SETTING"])
	assert.Equal(t, "standard", wc.Extra["THREAT_LEVEL"])
	assert.Empty(t, wc.Extra["HIGH_THREAT"])
}

func TestForPolicy(t *testing.T) {
	b := NewBuilders(memory.New(), nil, zap.NewNop())

	assert.Same(t, b.Hierarchical, b.ForPolicy(registry.PolicyHierarchical))
	assert.Same(t, b.Social, b.ForPolicy(registry.PolicySocial))
	assert.Same(t, b.Combat, b.ForPolicy(registry.PolicyCombat))
}
