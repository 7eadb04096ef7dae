package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/cache"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/circuitbreaker"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

// Endpoint paths on the upstream registry. The three search endpoints
// accept the identical filter parameter shape.
const (
	pathCompanies = "/companies"
	pathCount     = "/companies/count"
	pathStats     = "/companies/stats"
	pathOrgForms  = "/organisasjonsformer"
	pathKommuner  = "/kommuner"
)

const lookupCacheTTL = 12 * time.Hour

// Config holds upstream connection configuration.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	SearchCacheTTL time.Duration
}

// SearchOptions carry the non-filter arguments of a list request.
type SearchOptions struct {
	Page      int
	PageSize  int
	SortBy    model.SortField
	SortOrder model.SortOrder
}

// Client is the HTTP client for the public company registry. Responses
// to the search endpoints are cached through the request cache; the
// rarely-changing code lookups are cached in-process.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	ttl     time.Duration
	lookups *gocache.Cache
	breaker *circuitbreaker.CircuitBreaker
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

// NewClient builds a registry client.
func NewClient(cfg Config, reqCache *cache.Cache, logger *zerolog.Logger, m *metrics.Metrics) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.SearchCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   reqCache,
		ttl:     ttl,
		lookups: gocache.New(lookupCacheTTL, lookupCacheTTL),
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "registry",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		logger:  logger,
		metrics: m,
	}
}

// Search fetches one page of the company list for the given derived
// filter parameters.
func (c *Client) Search(ctx context.Context, params url.Values, opts SearchOptions) (*model.SearchResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	q := cloneValues(params)
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("page_size", strconv.Itoa(opts.PageSize))
	if opts.SortBy != "" {
		q.Set("sort_by", string(opts.SortBy))
	}
	if opts.SortOrder != "" {
		q.Set("sort_order", string(opts.SortOrder))
	}

	var result model.SearchResult
	if err := c.getJSON(ctx, pathCompanies, q, &result); err != nil {
		return nil, err
	}
	result.Page = opts.Page
	result.PageSize = opts.PageSize
	return &result, nil
}

// Count fetches the matching-company count for the given parameters.
func (c *Client) Count(ctx context.Context, params url.Values) (*model.CountResult, error) {
	var result model.CountResult
	if err := c.getJSON(ctx, pathCount, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats fetches the aggregate statistics for the given parameters.
func (c *Client) Stats(ctx context.Context, params url.Values) (*model.CompanyStats, error) {
	var result model.CompanyStats
	if err := c.getJSON(ctx, pathStats, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OrganizationForms returns the registry's organization form codes.
func (c *Client) OrganizationForms(ctx context.Context) ([]model.CodeEntry, error) {
	return c.lookup(ctx, pathOrgForms)
}

// Municipalities returns the registry's municipality codes.
func (c *Client) Municipalities(ctx context.Context) ([]model.CodeEntry, error) {
	return c.lookup(ctx, pathKommuner)
}

func (c *Client) lookup(ctx context.Context, path string) ([]model.CodeEntry, error) {
	if v, ok := c.lookups.Get(path); ok {
		return v.([]model.CodeEntry), nil
	}
	var entries []model.CodeEntry
	if err := c.getJSON(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	c.lookups.SetDefault(path, entries)
	return entries, nil
}

// getJSON fetches path with params through the request cache and the
// circuit breaker and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	fetch := func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, path, params)
	}

	var body []byte
	var err error
	if c.cache != nil {
		body, err = c.cache.GetOrFetch(ctx, path, cache.Key(path, params), c.ttl, fetch)
	} else {
		body, err = fetch(ctx)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode registry response: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var body []byte
	start := time.Now()
	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to build registry request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("registry request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("registry returned status %d for %s", resp.StatusCode, path)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read registry response: %w", err)
		}
		return nil
	})

	if c.metrics != nil {
		c.metrics.RegistryLatency.WithLabelValues(path).Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
			c.metrics.RegistryErrors.WithLabelValues(path).Inc()
		}
		c.metrics.RegistryRequests.WithLabelValues(path, status).Inc()
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("registry request failed")
		}
		return nil, err
	}
	return body, nil
}

func cloneValues(params url.Values) url.Values {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	return q
}
