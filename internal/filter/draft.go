package filter

import (
	"sync"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

// Draft is an uncommitted, local copy of a store's filter values. Form
// edits accumulate here without touching the applied state; Apply
// commits them atomically. A store subscription resynchronizes the
// draft whenever the applied state is bulk-replaced by someone else
// (a clear, or a saved-filter load applied elsewhere), discarding any
// in-progress edits.
type Draft struct {
	store *Store

	mu      sync.Mutex
	values  model.FilterValues
	version uint64
}

// NewDraft creates a draft initialized from the store's current values
// and wired to its bulk-change notifications.
func NewDraft(store *Store) *Draft {
	snap := store.Snapshot()
	d := &Draft{
		store:   store,
		values:  snap.Values,
		version: snap.Version,
	}
	store.Subscribe(d.onStoreChange)
	return d
}

// onStoreChange overwrites the draft with the store's values unless the
// new version is one this draft already knows about (its own apply).
func (d *Draft) onStoreChange(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if snap.Version == d.version {
		return
	}
	d.values = snap.Values.Clone()
	d.version = snap.Version
}

// Values returns a deep copy of the draft values.
func (d *Draft) Values() model.FilterValues {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.Clone()
}

// Update merges a partial edit into the draft. Geographic exclusivity
// is preserved: a patch setting a municipality clears the county and
// vice versa. Sort writes through to the store immediately so re-sorting
// never waits for an apply.
func (d *Draft) Update(p model.FilterPatch) {
	d.mu.Lock()
	p.ApplyTo(&d.values)
	if p.Municipality != nil && *p.Municipality != "" {
		d.values.County = ""
		d.values.CountyCode = ""
	} else if p.County != nil && *p.County != "" {
		d.values.Municipality = ""
		d.values.MunicipalityCode = ""
	}
	sortBy, sortOrder := d.values.SortBy, d.values.SortOrder
	writeSort := p.SortBy != nil || p.SortOrder != nil
	d.mu.Unlock()

	if writeSort {
		d.store.SetSort(sortBy, sortOrder)
	}
}

// LoadSaved replaces the draft with a saved filter's values without
// touching the store, so the user can review and edit before applying.
func (d *Draft) LoadSaved(v model.FilterValues) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = v.Clone()
}

// Apply commits the entire draft into the store as one bulk operation.
// The subscription fires synchronously during SetAllFilters; recording
// the returned version afterwards marks it as this draft's own.
func (d *Draft) Apply() {
	d.mu.Lock()
	patch := model.PatchFrom(d.values)
	d.mu.Unlock()

	version := d.store.SetAllFilters(patch)

	d.mu.Lock()
	d.version = version
	d.mu.Unlock()
}

// Clear resets the store directly, bypassing the draft; the resync
// notification brings the draft back to defaults.
func (d *Draft) Clear() {
	d.store.ClearFilters()
}

// Version returns the last store version this draft produced or
// synchronized to.
func (d *Draft) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}
