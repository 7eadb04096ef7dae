package filter

import (
	"net/url"
	"sync"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

// Snapshot is an immutable view of the applied filters at a point in
// time. Version changes whenever a bulk operation (apply, clear)
// replaced the state; draft holders compare it against their own
// last-known version to decide whether to discard local edits.
type Snapshot struct {
	Values  model.FilterValues `json:"values"`
	Version uint64             `json:"version"`
}

// Store is the single source of truth for the currently applied filter
// values. It is an injectable container: every session owns its own
// instance, nothing is process-global. All mutation goes through the
// setters; none of them can fail.
type Store struct {
	mu          sync.Mutex
	values      model.FilterValues
	version     uint64
	rev         uint64
	params      url.Values
	paramsRev   uint64
	paramsValid bool
	subscribers []func(Snapshot)
}

// NewStore returns a store holding the default (unfiltered) values.
func NewStore() *Store {
	return &Store{values: model.DefaultFilterValues()}
}

// Subscribe registers an observer invoked after every bulk state
// replacement. Observers run synchronously on the mutating goroutine,
// outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns a deep copy of the current values and version.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Values: s.values.Clone(), Version: s.version}
}

// Values returns a deep copy of the current values.
func (s *Store) Values() model.FilterValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Version returns the bulk-operation counter.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ActiveFilterCount reports how many filter concepts are currently
// non-default. It is recomputed from state on every call.
func (s *Store) ActiveFilterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ActiveFilterCount(s.values)
}

// QueryParams returns the derived backend parameters for the applied
// values. The derivation is pure; the store memoizes it and only
// recomputes after a mutation.
func (s *Store) QueryParams() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paramsValid || s.paramsRev != s.rev {
		s.params = QueryParams(s.values)
		s.paramsRev = s.rev
		s.paramsValid = true
	}
	out := url.Values{}
	for k, vs := range s.params {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// SetSearchQuery replaces the free-text search term.
func (s *Store) SetSearchQuery(q string) {
	s.mutate(func(v *model.FilterValues) { v.SearchQuery = q })
}

// SetNaeringskode replaces the NACE industry code filter.
func (s *Store) SetNaeringskode(code string) {
	s.mutate(func(v *model.FilterValues) { v.Naeringskode = code })
}

// SetMunicipality sets the municipality scope and clears any county
// scope; the two geographic filters are mutually exclusive.
func (s *Store) SetMunicipality(name, code string) {
	s.mutate(func(v *model.FilterValues) {
		v.Municipality = name
		v.MunicipalityCode = code
		v.County = ""
		v.CountyCode = ""
	})
}

// SetCounty sets the county scope and clears any municipality scope.
func (s *Store) SetCounty(name, code string) {
	s.mutate(func(v *model.FilterValues) {
		v.County = name
		v.CountyCode = code
		v.Municipality = ""
		v.MunicipalityCode = ""
	})
}

// SetOrganizationForms replaces the organization form code set.
func (s *Store) SetOrganizationForms(codes []string) {
	s.mutate(func(v *model.FilterValues) {
		v.OrganizationForms = append([]string(nil), codes...)
		if v.OrganizationForms == nil {
			v.OrganizationForms = []string{}
		}
	})
}

// SetRange replaces one numeric range filter.
func (s *Store) SetRange(f model.RangeField, r model.NumericRange) {
	s.mutate(func(v *model.FilterValues) { v.SetRange(f, r) })
}

// SetFoundedRange replaces the founding date filter.
func (s *Store) SetFoundedRange(r model.DateRange) {
	s.mutate(func(v *model.FilterValues) { v.Founded = r })
}

// SetBankruptRange replaces the bankruptcy date filter.
func (s *Store) SetBankruptRange(r model.DateRange) {
	s.mutate(func(v *model.FilterValues) { v.Bankrupt = r })
}

// SetIsBankrupt replaces the bankrupt flag.
func (s *Store) SetIsBankrupt(t model.Tristate) {
	s.mutate(func(v *model.FilterValues) { v.IsBankrupt = t })
}

// SetInLiquidation replaces the liquidation flag.
func (s *Store) SetInLiquidation(t model.Tristate) {
	s.mutate(func(v *model.FilterValues) { v.InLiquidation = t })
}

// SetInForcedLiquidation replaces the forced-liquidation flag.
func (s *Store) SetInForcedLiquidation(t model.Tristate) {
	s.mutate(func(v *model.FilterValues) { v.InForcedLiquidation = t })
}

// SetHasAccounting replaces the accounting-figures flag.
func (s *Store) SetHasAccounting(t model.Tristate) {
	s.mutate(func(v *model.FilterValues) { v.HasAccounting = t })
}

// SetSort replaces the sort field and direction.
func (s *Store) SetSort(by model.SortField, order model.SortOrder) {
	s.mutate(func(v *model.FilterValues) {
		v.SortBy = by
		v.SortOrder = order
	})
}

// SetAllFilters merges the set fields of the patch into the applied
// values, bumps the version exactly once however many fields changed,
// and notifies subscribers. Returns the new version.
func (s *Store) SetAllFilters(p model.FilterPatch) uint64 {
	s.mu.Lock()
	p.ApplyTo(&s.values)
	s.rev++
	s.version++
	snap := Snapshot{Values: s.values.Clone(), Version: s.version}
	subs := append(([]func(Snapshot))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap.Version
}

// ClearFilters resets every field to its default, bumps the version and
// notifies subscribers. Clearing twice yields identical field values;
// only the version differs. Returns the new version.
func (s *Store) ClearFilters() uint64 {
	s.mu.Lock()
	s.values = model.DefaultFilterValues()
	s.rev++
	s.version++
	snap := Snapshot{Values: s.values.Clone(), Version: s.version}
	subs := append(([]func(Snapshot))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap.Version
}

// mutate runs a fine-grained field update. Fine-grained setters do not
// bump the bulk version: only apply and clear force draft resync.
func (s *Store) mutate(fn func(*model.FilterValues)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.values)
	s.rev++
}
