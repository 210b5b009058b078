package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sethtw/saga-sub000/internal/store"
	"github.com/sethtw/saga-sub000/internal/store/model"
)

type repository struct {
	db *sqlx.DB
}

func newRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Close() error { return r.db.Close() }

func (r *repository) Campaigns() store.CampaignRepository { return &campaignRepo{db: r.db} }
func (r *repository) Elements() store.ElementRepository   { return &elementRepo{db: r.db} }
func (r *repository) Generated() store.GeneratedRepository {
	return &generatedRepo{db: r.db}
}
func (r *repository) Usage() store.UsageRepository { return &usageRepo{db: r.db} }

type campaignRepo struct {
	db *sqlx.DB
}

func (r *campaignRepo) Get(ctx context.Context, id string) (*model.Campaign, error) {
	var c model.Campaign
	err := r.db.GetContext(ctx, &c, `SELECT * FROM campaigns WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignRepo) Create(ctx context.Context, campaign *model.Campaign) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO campaigns (id, name, description, created_at)
		VALUES (:id, :name, :description, :created_at)`, campaign)
	return err
}

type elementRepo struct {
	db *sqlx.DB
}

func (r *elementRepo) Get(ctx context.Context, id string) (*model.Element, error) {
	var e model.Element
	err := r.db.GetContext(ctx, &e, `SELECT * FROM elements WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *elementRepo) Create(ctx context.Context, element *model.Element) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO elements (id, campaign_id, parent_id, type, name, description, data, created_at)
		VALUES (:id, :campaign_id, :parent_id, :type, :name, :description, :data, :created_at)`, element)
	return err
}

func (r *elementRepo) ListByCampaign(ctx context.Context, campaignID string) ([]model.Element, error) {
	var elements []model.Element
	err := r.db.SelectContext(ctx, &elements,
		`SELECT * FROM elements WHERE campaign_id = ? ORDER BY created_at`, campaignID)
	return elements, err
}

type generatedRepo struct {
	db *sqlx.DB
}

func (r *generatedRepo) Create(ctx context.Context, element *model.GeneratedElement) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generated_elements
			(id, campaign_id, parent_id, object_type, data, provider, model, tokens_used, cost_micros, latency_ms, created_at)
		VALUES
			(:id, :campaign_id, :parent_id, :object_type, :data, :provider, :model, :tokens_used, :cost_micros, :latency_ms, :created_at)`,
		element)
	return err
}

func (r *generatedRepo) GetByID(ctx context.Context, id string) (*model.GeneratedElement, error) {
	var e model.GeneratedElement
	err := r.db.GetContext(ctx, &e, `SELECT * FROM generated_elements WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type usageRepo struct {
	db *sqlx.DB
}

func (r *usageRepo) Log(ctx context.Context, row *model.UsageRow) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO usage_log (id, provider, model, tokens, cost_micros, latency_ms, success, error_kind, created_at)
		VALUES (:id, :provider, :model, :tokens, :cost_micros, :latency_ms, :success, :error_kind, :created_at)`, row)
	return err
}

func (r *usageRepo) Recent(ctx context.Context, limit int) ([]model.UsageRow, error) {
	var rows []model.UsageRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM usage_log ORDER BY created_at DESC LIMIT ?`, limit)
	return rows, err
}
