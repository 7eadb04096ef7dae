package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 2}, nil, nil, nil)
	return client, srv
}

func TestSearchPassesFilterAndPagingParams(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathCompanies, r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"companies":[{"organisasjonsnummer":"123456789","name":"Testbedrift AS"}],"total":1}`))
	})

	params := url.Values{}
	params.Set("name", "test")
	params.Add("organisasjonsform", "AS")
	params.Add("organisasjonsform", "ASA")

	result, err := client.Search(context.Background(), params, SearchOptions{
		Page:      3,
		PageSize:  50,
		SortBy:    model.SortByRevenue,
		SortOrder: model.SortDescending,
	})
	require.NoError(t, err)

	assert.Equal(t, "test", gotQuery.Get("name"))
	assert.Equal(t, []string{"AS", "ASA"}, gotQuery["organisasjonsform"])
	assert.Equal(t, "3", gotQuery.Get("page"))
	assert.Equal(t, "50", gotQuery.Get("page_size"))
	assert.Equal(t, string(model.SortByRevenue), gotQuery.Get("sort_by"))
	assert.Equal(t, string(model.SortDescending), gotQuery.Get("sort_order"))

	require.Len(t, result.Companies, 1)
	assert.Equal(t, "Testbedrift AS", result.Companies[0].Name)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 3, result.Page)
	assert.Equal(t, 50, result.PageSize)
}

func TestSearchDoesNotMutateCallerParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"companies":[],"total":0}`))
	})

	params := url.Values{}
	params.Set("name", "test")

	_, err := client.Search(context.Background(), params, SearchOptions{Page: 2, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"name": []string{"test"}}, params,
		"paging keys must not leak into the caller's parameter set")
}

func TestSearchDefaultsPaging(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"companies":[],"total":0}`))
	})

	_, err := client.Search(context.Background(), url.Values{}, SearchOptions{Page: 0, PageSize: -5})
	require.NoError(t, err)

	assert.Equal(t, "1", gotQuery.Get("page"))
	assert.Equal(t, "20", gotQuery.Get("page_size"))
	assert.Empty(t, gotQuery.Get("sort_by"))
	assert.Empty(t, gotQuery.Get("sort_order"))
}

func TestCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathCount, r.URL.Path)
		assert.Equal(t, "0301", r.URL.Query().Get("kommune"))
		w.Write([]byte(`{"count":42}`))
	})

	params := url.Values{}
	params.Set("kommune", "0301")

	result, err := client.Count(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 42, result.Count)
}

func TestStats(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathStats, r.URL.Path)
		w.Write([]byte(`{"count":7,"total_revenue":1000000,"avg_revenue":142857.14}`))
	})

	result, err := client.Stats(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Count)
	assert.Equal(t, int64(1000000), result.TotalRevenue)
	assert.Equal(t, 142857.14, result.AvgRevenue)
}

func TestUpstreamErrorStatusIsSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Count(context.Background(), url.Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLookupsAreCachedInProcess(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathOrgForms, r.URL.Path)
		calls++
		w.Write([]byte(`[{"code":"AS","name":"Aksjeselskap"}]`))
	})

	first, err := client.OrganizationForms(context.Background())
	require.NoError(t, err)
	second, err := client.OrganizationForms(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second lookup must be served from the in-process cache")
	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, "AS", first[0].Code)
}
