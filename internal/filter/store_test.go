package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

func TestStoreMunicipalityClearsCounty(t *testing.T) {
	s := NewStore()

	s.SetMunicipality("Oslo", "0301")
	s.SetCounty("Oslo", "03")

	v := s.Values()
	assert.Equal(t, "", v.Municipality)
	assert.Equal(t, "", v.MunicipalityCode)
	assert.Equal(t, "Oslo", v.County)
	assert.Equal(t, "03", v.CountyCode)
}

func TestStoreCountyClearsMunicipality(t *testing.T) {
	s := NewStore()

	s.SetCounty("Vestland", "46")
	s.SetMunicipality("Bergen", "4601")

	v := s.Values()
	assert.Equal(t, "Bergen", v.Municipality)
	assert.Equal(t, "4601", v.MunicipalityCode)
	assert.Equal(t, "", v.County)
	assert.Equal(t, "", v.CountyCode)
}

func TestStoreActiveFilterCount(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.ActiveFilterCount())

	// Both bounds of one range still count as a single concept.
	s.SetRange(model.RangeRevenue, model.NumericRange{Min: f64(1000), Max: f64(50000)})
	assert.Equal(t, 1, s.ActiveFilterCount())

	s.SetSearchQuery("fisk")
	s.SetOrganizationForms([]string{"AS", "ASA", "ENK"})
	s.SetIsBankrupt(model.TristateOf(true))
	assert.Equal(t, 4, s.ActiveFilterCount())
}

func TestStoreClearIsIdempotent(t *testing.T) {
	s := NewStore()
	s.SetSearchQuery("fjord")
	s.SetRange(model.RangeEquityRatio, model.NumericRange{Min: f64(0.2)})
	s.SetHasAccounting(model.TristateOf(true))

	v1 := s.ClearFilters()
	first := s.Values()
	v2 := s.ClearFilters()
	second := s.Values()

	assert.Equal(t, first, second, "field values must be identical after repeated clears")
	assert.Equal(t, model.DefaultFilterValues(), first)
	assert.Equal(t, v1+1, v2, "version still increments on every clear")
}

func TestStoreVersionBumpsOnBulkOperationsOnly(t *testing.T) {
	s := NewStore()
	base := s.Version()

	s.SetSearchQuery("laks")
	s.SetNaeringskode("03.211")
	assert.Equal(t, base, s.Version(), "fine-grained setters do not bump the version")

	s.SetAllFilters(model.FilterPatch{})
	assert.Equal(t, base+1, s.Version())

	s.ClearFilters()
	assert.Equal(t, base+2, s.Version())
}

func TestStoreSetAllFiltersMergesSubset(t *testing.T) {
	s := NewStore()
	s.SetSearchQuery("verft")

	county := "Rogaland"
	code := "11"
	s.SetAllFilters(model.FilterPatch{County: &county, CountyCode: &code})

	v := s.Values()
	assert.Equal(t, "verft", v.SearchQuery, "untouched fields survive a partial merge")
	assert.Equal(t, "Rogaland", v.County)
}

func TestStoreNotifiesSubscribersOnBulkChange(t *testing.T) {
	s := NewStore()

	var got []Snapshot
	s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.SetSearchQuery("ignored")
	require.Empty(t, got, "fine-grained setters do not notify")

	s.ClearFilters()
	require.Len(t, got, 1)
	assert.Equal(t, model.DefaultFilterValues(), got[0].Values)
	assert.Equal(t, s.Version(), got[0].Version)
}

func TestStoreQueryParamsTrackMutations(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.QueryParams())

	s.SetRange(model.RangeRevenue, model.NumericRange{Min: f64(-50)})
	q := s.QueryParams()
	assert.Equal(t, "0", q.Get("min_revenue"), "memoized params must refresh after a mutation")

	s.ClearFilters()
	assert.Empty(t, s.QueryParams())
}

func TestStoreSnapshotIsDetached(t *testing.T) {
	s := NewStore()
	s.SetRange(model.RangeProfit, model.NumericRange{Min: f64(100)})

	snap := s.Snapshot()
	*snap.Values.Profit.Min = 999

	assert.Equal(t, float64(100), *s.Values().Profit.Min, "snapshot mutation must not leak into the store")
}
