package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

func strPtr(s string) *string {
	return &s
}

func TestDraftEditsDoNotTouchStore(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	draft.Update(model.FilterPatch{SearchQuery: strPtr("rederi")})

	assert.Equal(t, "rederi", draft.Values().SearchQuery)
	assert.Equal(t, "", store.Values().SearchQuery)
}

func TestDraftApplyCommitsAtomically(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)
	base := store.Version()

	draft.Update(model.FilterPatch{
		SearchQuery: strPtr("bank"),
		Revenue:     &model.NumericRange{Min: f64(1e6)},
		IsBankrupt:  &model.Tristate{Valid: true, Value: false},
	})
	draft.Apply()

	v := store.Values()
	assert.Equal(t, "bank", v.SearchQuery)
	assert.Equal(t, float64(1e6), *v.Revenue.Min)
	assert.Equal(t, model.TristateOf(false), v.IsBankrupt)
	assert.Equal(t, base+1, store.Version(), "apply bumps the version exactly once")
}

func TestDraftResyncsAfterExternalClear(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	// Unsaved edits, then someone else clears the store: the draft must
	// discard the edits and show cleared values.
	draft.Update(model.FilterPatch{
		SearchQuery:  strPtr("skipsverft"),
		Municipality: strPtr("Ulstein"),
	})
	store.ClearFilters()

	assert.Equal(t, model.DefaultFilterValues(), draft.Values())
	assert.Equal(t, store.Version(), draft.Version())
}

func TestDraftResyncsAfterExternalBulkReplace(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)
	draft.Update(model.FilterPatch{SearchQuery: strPtr("in progress")})

	store.SetAllFilters(model.FilterPatch{SearchQuery: strPtr("applied elsewhere")})

	assert.Equal(t, "applied elsewhere", draft.Values().SearchQuery)
}

func TestDraftOwnApplyDoesNotDiscardItself(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	draft.Update(model.FilterPatch{SearchQuery: strPtr("egen")})
	draft.Apply()

	assert.Equal(t, "egen", draft.Values().SearchQuery)
	assert.Equal(t, store.Version(), draft.Version())
}

func TestDraftLoadSavedDoesNotTouchStore(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	saved := model.DefaultFilterValues()
	saved.SearchQuery = "lagret"
	saved.County = "Troms"
	draft.LoadSaved(saved)

	assert.Equal(t, "lagret", draft.Values().SearchQuery)
	assert.Equal(t, "", store.Values().SearchQuery, "loading a saved filter goes into the draft only")
}

func TestDraftGeographicExclusivity(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	draft.Update(model.FilterPatch{Municipality: strPtr("Oslo"), MunicipalityCode: strPtr("0301")})
	draft.Update(model.FilterPatch{County: strPtr("Oslo"), CountyCode: strPtr("03")})

	v := draft.Values()
	assert.Equal(t, "", v.Municipality)
	assert.Equal(t, "Oslo", v.County)
}

func TestDraftSortWritesThrough(t *testing.T) {
	store := NewStore()
	draft := NewDraft(store)

	by := model.SortByRevenue
	order := model.SortDescending
	draft.Update(model.FilterPatch{SortBy: &by, SortOrder: &order})

	v := store.Values()
	assert.Equal(t, model.SortByRevenue, v.SortBy, "sort applies immediately without an explicit apply")
	assert.Equal(t, model.SortDescending, v.SortOrder)
}
