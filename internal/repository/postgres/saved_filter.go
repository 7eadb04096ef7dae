package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/repository"
)

type savedFilterRepository struct {
	db *sqlx.DB
}

// NewSavedFilterRepository returns the postgres-backed saved-filter
// store. Each namespace owns one row whose data column holds the full
// JSON array of saved filters.
func NewSavedFilterRepository(db *sqlx.DB) repository.SavedFilterRepository {
	return &savedFilterRepository{db: db}
}

// EnsureSchema creates the saved-filter table when it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS saved_filter_sets (
			namespace  TEXT PRIMARY KEY,
			data       JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create saved_filter_sets table: %w", err)
	}
	return nil
}

func (r *savedFilterRepository) Load(ctx context.Context, namespace string) ([]model.SavedFilter, error) {
	query := `SELECT data FROM saved_filter_sets WHERE namespace = $1`
	var raw []byte
	err := r.db.GetContext(ctx, &raw, query, namespace)
	if err == sql.ErrNoRows {
		return []model.SavedFilter{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved filters: %w", err)
	}

	var filters []model.SavedFilter
	if err := json.Unmarshal(raw, &filters); err != nil {
		return nil, fmt.Errorf("failed to decode saved filters: %w", err)
	}
	return filters, nil
}

func (r *savedFilterRepository) Store(ctx context.Context, namespace string, filters []model.SavedFilter) error {
	if filters == nil {
		filters = []model.SavedFilter{}
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("failed to encode saved filters: %w", err)
	}

	query := `
		INSERT INTO saved_filter_sets (namespace, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace) DO UPDATE SET data = $2, updated_at = $3
	`
	if _, err := r.db.ExecContext(ctx, query, namespace, raw, time.Now()); err != nil {
		return fmt.Errorf("failed to store saved filters: %w", err)
	}
	return nil
}
