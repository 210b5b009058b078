package generation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/gateway"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/model"
	"github.com/sethtw/saga-sub000/internal/template"
	"github.com/sethtw/saga-sub000/internal/worldctx"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// PersistenceError wraps a storage failure after a successful generation.
// The object was produced and validated; only durability failed.
type PersistenceError struct {
	ObjectID string
	cause    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist generated object %s: %v", e.ObjectID, e.cause)
}

func (e *PersistenceError) Unwrap() error { return e.cause }

// Service drives the generation pipeline end to end. Each call is
// independent: no retries, no dedup, no session state.
type Service struct {
	registry *registry.Registry
	builders *worldctx.Builders
	engine   *template.Engine
	gateway  *gateway.Gateway
	repo     store.Repository
	logger   *zap.Logger
}

func NewService(
	reg *registry.Registry,
	builders *worldctx.Builders,
	engine *template.Engine,
	gw *gateway.Gateway,
	repo store.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry: reg,
		builders: builders,
		engine:   engine,
		gateway:  gw,
		repo:     repo,
		logger:   logger,
	}
}

var tracer = otel.Tracer("generation")

// GenerateObject runs one generation request through the pipeline and
// returns the validated, persisted object.
func (s *Service) GenerateObject(ctx context.Context, req api.GenerateRequest) (*api.GeneratedObject, error) {
	ctx, span := tracer.Start(ctx, "generation.GenerateObject",
		trace.WithAttributes(
			attribute.String("object_type", req.ObjectType),
			attribute.String("provider", req.Provider),
		))
	defer span.End()

	def, err := s.registry.Get(req.ObjectType)
	if err != nil {
		return nil, err
	}

	builder := s.builders.ForPolicy(def.ContextPolicy)
	wc := builder.Build(ctx, req.ContextID, req.CampaignID)
	wc.UserPrompt = req.Prompt
	wc.ObjectType = def.Name

	prompt, err := s.engine.Render(def.Template, wc.Flatten())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.gateway.Generate(ctx, prompt, req.Provider, llm.Options{})
	if err != nil {
		s.logger.Warn("generation call failed",
			zap.String("object_type", def.Name),
			zap.String("provider", req.Provider),
			zap.Error(err))
		return nil, err
	}

	data, err := ParseAndValidate(def.Name, res.Content, def.Schema)
	if err != nil {
		s.logger.Warn("generated payload rejected",
			zap.String("object_type", def.Name),
			zap.String("provider", res.Provider),
			zap.Error(err))
		return nil, err
	}

	obj := &api.GeneratedObject{
		ID:         uuid.New().String(),
		ObjectType: def.Name,
		Data:       data,
		Metadata: api.GenerationMetadata{
			Provider:     res.Provider,
			Model:        res.Model,
			TokensUsed:   res.TokensUsed,
			CostEstimate: res.CostEstimate,
			LatencyMS:    res.Latency.Milliseconds(),
			GeneratedAt:  start,
		},
	}

	if err := s.persist(ctx, req, obj); err != nil {
		return nil, err
	}

	s.logger.Info("object generated",
		zap.String("id", obj.ID),
		zap.String("object_type", obj.ObjectType),
		zap.String("provider", obj.Metadata.Provider),
		zap.Int("tokens", obj.Metadata.TokensUsed))
	return obj, nil
}

func (s *Service) persist(ctx context.Context, req api.GenerateRequest, obj *api.GeneratedObject) error {
	payload, err := json.Marshal(obj.Data)
	if err != nil {
		return &PersistenceError{ObjectID: obj.ID, cause: err}
	}

	element := &model.GeneratedElement{
		ID:         obj.ID,
		CampaignID: req.CampaignID,
		ObjectType: obj.ObjectType,
		Data:       string(payload),
		Provider:   obj.Metadata.Provider,
		Model:      obj.Metadata.Model,
		TokensUsed: obj.Metadata.TokensUsed,
		CostMicros: int64(obj.Metadata.CostEstimate * 1_000_000),
		LatencyMS:  obj.Metadata.LatencyMS,
		CreatedAt:  obj.Metadata.GeneratedAt,
	}
	if req.ContextID != "" {
		element.ParentID = sql.NullString{String: req.ContextID, Valid: true}
	}

	if err := s.repo.Generated().Create(ctx, element); err != nil {
		return &PersistenceError{ObjectID: obj.ID, cause: err}
	}
	return nil
}

// ListObjectTypes returns summaries for every registered type, sorted by name.
func (s *Service) ListObjectTypes() []api.ObjectTypeSummary {
	names := s.registry.Names()
	out := make([]api.ObjectTypeSummary, 0, len(names))
	for _, name := range names {
		def, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, api.ObjectTypeSummary{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Plural:      def.Plural,
			Icon:        def.Icon,
			Category:    string(def.Category),
		})
	}
	return out
}

// GetObjectType returns the full definition for one registered type.
func (s *Service) GetObjectType(name string) (registry.TypeDefinition, error) {
	return s.registry.Get(name)
}

// IsValidObjectType reports whether the name is registered.
func (s *Service) IsValidObjectType(name string) bool {
	return s.registry.IsValidType(name)
}
