package repository

import (
	"context"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

// SavedFilterRepository is a durable key-value store for saved-filter
// lists: the whole JSON-serializable array is read and written under a
// single namespace key, matching the product's storage layout.
type SavedFilterRepository interface {
	Load(ctx context.Context, namespace string) ([]model.SavedFilter, error)
	Store(ctx context.Context, namespace string, filters []model.SavedFilter) error
}
