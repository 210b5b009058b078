package model

import (
	"database/sql"
	"time"
)

// Campaign is the summary the context builder reads. Full campaign CRUD
// lives outside this service.
type Campaign struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Element is one node of the spatial world tree. ParentID links upward;
// a null parent marks a root (outermost) element.
type Element struct {
	ID          string         `db:"id" json:"id"`
	CampaignID  string         `db:"campaign_id" json:"campaign_id"`
	ParentID    sql.NullString `db:"parent_id" json:"parent_id"`
	Type        string         `db:"type" json:"type"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Data        string         `db:"data" json:"data"` // JSON payload
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// GeneratedElement is the persisted form of a generated object, including
// its provenance metadata.
type GeneratedElement struct {
	ID         string         `db:"id" json:"id"`
	CampaignID string         `db:"campaign_id" json:"campaign_id"`
	ParentID   sql.NullString `db:"parent_id" json:"parent_id"`
	ObjectType string         `db:"object_type" json:"object_type"`
	Data       string         `db:"data" json:"data"` // validated JSON payload

	Provider   string `db:"provider" json:"provider"`
	Model      string `db:"model" json:"model"`
	TokensUsed int    `db:"tokens_used" json:"tokens_used"`
	CostMicros int64  `db:"cost_micros" json:"cost_micros"`
	LatencyMS  int64  `db:"latency_ms" json:"latency_ms"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UsageRow is the durable form of one usage metric.
type UsageRow struct {
	ID         string         `db:"id" json:"id"`
	Provider   string         `db:"provider" json:"provider"`
	Model      string         `db:"model" json:"model"`
	Tokens     int            `db:"tokens" json:"tokens"`
	CostMicros int64          `db:"cost_micros" json:"cost_micros"`
	LatencyMS  int64          `db:"latency_ms" json:"latency_ms"`
	Success    bool           `db:"success" json:"success"`
	ErrorKind  sql.NullString `db:"error_kind" json:"error_kind"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
