package search

import (
	"context"
	"net/url"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/registry"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/errors"
)

// Registry is the slice of the registry client the search service
// consumes.
type Registry interface {
	Search(ctx context.Context, params url.Values, opts registry.SearchOptions) (*model.SearchResult, error)
	Count(ctx context.Context, params url.Values) (*model.CountResult, error)
	Stats(ctx context.Context, params url.Values) (*model.CompanyStats, error)
	OrganizationForms(ctx context.Context) ([]model.CodeEntry, error)
	Municipalities(ctx context.Context) ([]model.CodeEntry, error)
}

// Service runs the three search queries against the session's applied
// filters. Parameters are always derived from the latest store
// snapshot, so the most recent applied state drives every request.
type Service interface {
	Search(ctx context.Context, sess *filter.Session, page, pageSize int) (*model.SearchResult, error)
	Count(ctx context.Context, sess *filter.Session) (*model.CountResult, error)
	Stats(ctx context.Context, sess *filter.Session) (*model.CompanyStats, error)
	OrganizationForms(ctx context.Context) ([]model.CodeEntry, error)
	Municipalities(ctx context.Context) ([]model.CodeEntry, error)
}

type service struct {
	registry Registry
}

// NewService creates a search service over the registry client.
func NewService(reg Registry) Service {
	return &service{registry: reg}
}

func (s *service) Search(ctx context.Context, sess *filter.Session, page, pageSize int) (*model.SearchResult, error) {
	if page < 1 {
		page = sess.Page()
	}
	values := sess.Store.Values()

	result, err := s.registry.Search(ctx, sess.Store.QueryParams(), registry.SearchOptions{
		Page:      page,
		PageSize:  pageSize,
		SortBy:    values.SortBy,
		SortOrder: values.SortOrder,
	})
	if err != nil {
		return nil, errors.NewUnavailable("company registry unavailable", err)
	}

	sess.SetPage(page)
	return result, nil
}

func (s *service) Count(ctx context.Context, sess *filter.Session) (*model.CountResult, error) {
	result, err := s.registry.Count(ctx, sess.Store.QueryParams())
	if err != nil {
		return nil, errors.NewUnavailable("company registry unavailable", err)
	}
	return result, nil
}

func (s *service) Stats(ctx context.Context, sess *filter.Session) (*model.CompanyStats, error) {
	result, err := s.registry.Stats(ctx, sess.Store.QueryParams())
	if err != nil {
		return nil, errors.NewUnavailable("company registry unavailable", err)
	}
	return result, nil
}

func (s *service) OrganizationForms(ctx context.Context) ([]model.CodeEntry, error) {
	entries, err := s.registry.OrganizationForms(ctx)
	if err != nil {
		return nil, errors.NewUnavailable("company registry unavailable", err)
	}
	return entries, nil
}

func (s *service) Municipalities(ctx context.Context) ([]model.CodeEntry, error) {
	entries, err := s.registry.Municipalities(ctx)
	if err != nil {
		return nil, errors.NewUnavailable("company registry unavailable", err)
	}
	return entries, nil
}
