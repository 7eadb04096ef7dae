package savedfilter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/repository"
)

// MaxSavedFilters caps the list per namespace; the oldest entries are
// evicted once the cap is exceeded.
const MaxSavedFilters = 20

// Service manages named saved-filter snapshots, independent of any live
// filter store. Name uniqueness is the caller's concern (the handler
// rejects duplicates with a warning); the service itself does not
// enforce it.
type Service interface {
	SaveFilter(ctx context.Context, namespace, name string, values model.SavedFilterSnapshot) (string, error)
	UpdateFilter(ctx context.Context, namespace, id, name string, values model.SavedFilterSnapshot) error
	RenameFilter(ctx context.Context, namespace, id, name string) error
	DeleteFilter(ctx context.Context, namespace, id string) error
	GetFilter(ctx context.Context, namespace, id string) (*model.SavedFilter, error)
	ListFilters(ctx context.Context, namespace string) ([]model.SavedFilter, error)
	HasName(ctx context.Context, namespace, name string) (bool, error)
	CountActiveFilters(values model.SavedFilterSnapshot) int
}

type service struct {
	repo repository.SavedFilterRepository
	now  func() time.Time
}

// NewService creates a saved-filter service over the given repository.
func NewService(repo repository.SavedFilterRepository) Service {
	return &service{repo: repo, now: time.Now}
}

// SaveFilter inserts a new snapshot at the front of the list, trims the
// list to the cap and returns the generated id.
func (s *service) SaveFilter(ctx context.Context, namespace, name string, values model.SavedFilterSnapshot) (string, error) {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return "", fmt.Errorf("failed to load saved filters: %w", err)
	}

	now := s.now()
	entry := model.SavedFilter{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Filters:   values,
	}

	filters = append([]model.SavedFilter{entry}, filters...)
	if len(filters) > MaxSavedFilters {
		filters = filters[:MaxSavedFilters]
	}

	if err := s.repo.Store(ctx, namespace, filters); err != nil {
		return "", fmt.Errorf("failed to store saved filters: %w", err)
	}
	return entry.ID, nil
}

// UpdateFilter replaces name and filter values in place; a no-op when
// the id is unknown.
func (s *service) UpdateFilter(ctx context.Context, namespace, id, name string, values model.SavedFilterSnapshot) error {
	return s.modify(ctx, namespace, id, func(f *model.SavedFilter) {
		f.Name = name
		f.Filters = values
		f.UpdatedAt = s.now()
	})
}

// RenameFilter updates only the name, leaving stored values untouched;
// a no-op when the id is unknown.
func (s *service) RenameFilter(ctx context.Context, namespace, id, name string) error {
	return s.modify(ctx, namespace, id, func(f *model.SavedFilter) {
		f.Name = name
		f.UpdatedAt = s.now()
	})
}

// DeleteFilter removes the entry; a no-op when the id is unknown.
func (s *service) DeleteFilter(ctx context.Context, namespace, id string) error {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to load saved filters: %w", err)
	}

	kept := filters[:0]
	found := false
	for _, f := range filters {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		return nil
	}

	if err := s.repo.Store(ctx, namespace, kept); err != nil {
		return fmt.Errorf("failed to store saved filters: %w", err)
	}
	return nil
}

// GetFilter returns the entry or nil when not found; it never fails on
// a missing id.
func (s *service) GetFilter(ctx context.Context, namespace, id string) (*model.SavedFilter, error) {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved filters: %w", err)
	}
	for i := range filters {
		if filters[i].ID == id {
			f := filters[i]
			return &f, nil
		}
	}
	return nil, nil
}

// ListFilters returns all saved filters, most recently saved first.
func (s *service) ListFilters(ctx context.Context, namespace string) ([]model.SavedFilter, error) {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved filters: %w", err)
	}
	return filters, nil
}

// HasName reports whether a saved filter with the given name exists,
// compared case-insensitively.
func (s *service) HasName(ctx context.Context, namespace, name string) (bool, error) {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return false, fmt.Errorf("failed to load saved filters: %w", err)
	}
	for _, f := range filters {
		if strings.EqualFold(f.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// CountActiveFilters applies the live store's concept-counting rule to
// a stored snapshot; both share one implementation.
func (s *service) CountActiveFilters(values model.SavedFilterSnapshot) int {
	return model.ActiveFilterCount(values.Values())
}

func (s *service) modify(ctx context.Context, namespace, id string, fn func(*model.SavedFilter)) error {
	filters, err := s.repo.Load(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to load saved filters: %w", err)
	}

	found := false
	for i := range filters {
		if filters[i].ID == id {
			fn(&filters[i])
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	if err := s.repo.Store(ctx, namespace, filters); err != nil {
		return fmt.Errorf("failed to store saved filters: %w", err)
	}
	return nil
}
