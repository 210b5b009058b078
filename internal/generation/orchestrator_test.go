package generation

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/gateway"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/schema"
	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/cache"
	"github.com/sethtw/saga-sub000/internal/store/memory"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/internal/template"
	"github.com/sethtw/saga-sub000/internal/worldctx"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// stubReply is what the registered stub adapter returns next. Tests in this
// package run sequentially and set it before each call.
var stubReply struct {
	content string
	err     error
}

type stubAdapter struct{}

func (stubAdapter) Name() string                   { return "stub" }
func (stubAdapter) Model() string                  { return "stub-1" }
func (stubAdapter) Available() bool                { return true }
func (stubAdapter) EstimateTokens(text string) int { return llm.EstimateTokens(text) }

func (stubAdapter) Generate(context.Context, string, llm.Options) (*llm.Result, error) {
	if stubReply.err != nil {
		return nil, stubReply.err
	}
	return &llm.Result{
		Content:    stubReply.content,
		Provider:   "stub",
		Model:      "stub-1",
		TokensUsed: 42,
		Latency:    3 * time.Millisecond,
	}, nil
}

func init() {
	llm.Register("stub", func(config.ProviderConfig) (llm.Provider, error) {
		return stubAdapter{}, nil
	})
}

func newTestService(t *testing.T, repo store.Repository) *Service {
	t.Helper()
	logger := zap.NewNop()

	reg := registry.New(logger)
	require.NoError(t, reg.Register(registry.TypeDefinition{
		Name:          "relic",
		DisplayName:   "Relic",
		Plural:        "Relics",
		Category:      registry.CategoryItem,
		Template:      "relic",
		ContextPolicy: registry.PolicyHierarchical,
		Schema: schema.Schema{Fields: []schema.Field{
			{Key: "name", Kind: schema.KindString, Required: true},
			{Key: "description", Kind: schema.KindText, Required: true},
		}},
	}))

	engine := template.NewEngineFS(fstest.MapFS{
		"relic.txt": &fstest.MapFile{Data: []byte("Create a {{OBJECT_TYPE}} in {{CAMPAIGN_NAME}}.\n{{USER_PROMPT}}")},
	}, logger)

	cfg := &config.Config{
		DefaultProvider: "stub",
		Usage:           config.UsageConfig{Retention: 100},
		Providers: []config.ProviderConfig{
			{Name: "stub", Type: "stub", Model: "stub-1", Enabled: true},
		},
	}
	gw := gateway.New(cfg, nil, logger)

	builders := worldctx.NewBuilders(repo, cache.NewMemory(), logger)
	return NewService(reg, builders, engine, gw, repo, logger)
}

func TestGenerateObject_EndToEnd(t *testing.T) {
	repo := memory.New()
	require.NoError(t, repo.Campaigns().Create(context.Background(), &model.Campaign{
		ID: "camp-1", Name: "Shattered Vale", Description: "A broken land",
	}))
	svc := newTestService(t, repo)

	stubReply.content = "```json\n{\"name\": \"Grom\", \"description\": \"A dwarf-forged blade\"}\n```"
	stubReply.err = nil

	obj, err := svc.GenerateObject(context.Background(), api.GenerateRequest{
		ObjectType: "relic",
		Prompt:     "an ancient weapon",
		CampaignID: "camp-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, "relic", obj.ObjectType)
	assert.Equal(t, "Grom", obj.Data["name"])
	assert.Equal(t, "stub", obj.Metadata.Provider)
	assert.Equal(t, 42, obj.Metadata.TokensUsed)
	assert.False(t, obj.Metadata.GeneratedAt.IsZero())

	// persisted with provenance
	persisted, err := repo.Generated().GetByID(context.Background(), obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "relic", persisted.ObjectType)
	assert.Equal(t, "stub", persisted.Provider)
	assert.Contains(t, persisted.Data, "Grom")
}

func TestGenerateObject_UnknownType(t *testing.T) {
	svc := newTestService(t, memory.New())

	_, err := svc.GenerateObject(context.Background(), api.GenerateRequest{
		ObjectType: "spaceship",
		Prompt:     "anything",
	})
	var terr *registry.ObjectTypeError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "spaceship", terr.Name)
}

func TestGenerateObject_InvalidPayload(t *testing.T) {
	svc := newTestService(t, memory.New())

	stubReply.content = `{"name": "Grom"}` // missing description
	stubReply.err = nil

	_, err := svc.GenerateObject(context.Background(), api.GenerateRequest{
		ObjectType: "relic",
		Prompt:     "an ancient weapon",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "relic", verr.ObjectType)
}

func TestGenerateObject_ProviderErrorPropagates(t *testing.T) {
	svc := newTestService(t, memory.New())

	boom := llm.RateLimitError("stub", "slow down", 2*time.Second, nil)
	stubReply.err = boom
	t.Cleanup(func() { stubReply.err = nil })

	_, err := svc.GenerateObject(context.Background(), api.GenerateRequest{
		ObjectType: "relic",
		Prompt:     "an ancient weapon",
	})
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, llm.KindRateLimit, llm.KindOf(err))
}

func TestGenerateObject_MissingCampaignStillGenerates(t *testing.T) {
	// context assembly degrades instead of failing
	svc := newTestService(t, memory.New())

	stubReply.content = `{"name": "Grom", "description": "A dwarf-forged blade"}`
	stubReply.err = nil

	obj, err := svc.GenerateObject(context.Background(), api.GenerateRequest{
		ObjectType: "relic",
		Prompt:     "an ancient weapon",
		CampaignID: "no-such-campaign",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grom", obj.Data["name"])
}

func TestListObjectTypes(t *testing.T) {
	svc := newTestService(t, memory.New())

	types := svc.ListObjectTypes()
	require.Len(t, types, 1)
	assert.Equal(t, "relic", types[0].Name)
	assert.Equal(t, "item", types[0].Category)
	assert.True(t, svc.IsValidObjectType("relic"))
	assert.False(t, svc.IsValidObjectType("spaceship"))
}
