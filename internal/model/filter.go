package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// SortField enumerates the fields the company list can be sorted by.
type SortField string

const (
	SortByName        SortField = "name"
	SortByRevenue     SortField = "revenue"
	SortByProfit      SortField = "profit"
	SortByEquity      SortField = "equity"
	SortByEmployees   SortField = "employees"
	SortByFoundedDate SortField = "founded_date"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// RangeField identifies one of the numeric range filters. The set is
// closed; range fields are addressed through this enum rather than by
// constructed field names.
type RangeField int

const (
	RangeRevenue RangeField = iota
	RangeProfit
	RangeEquity
	RangeOperatingProfit
	RangeLiquidityRatio
	RangeEquityRatio
	RangeEmployees
)

// RangeFields lists every numeric range filter, in display order.
var RangeFields = []RangeField{
	RangeRevenue,
	RangeProfit,
	RangeEquity,
	RangeOperatingProfit,
	RangeLiquidityRatio,
	RangeEquityRatio,
	RangeEmployees,
}

// NumericRange is a half-open numeric filter. Either bound may be nil
// (unset). Min > Max is not validated here; the backend applies its own
// defaults.
type NumericRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// IsZero reports whether neither bound is set.
func (r NumericRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r NumericRange) clone() NumericRange {
	return NumericRange{Min: copyFloat(r.Min), Max: copyFloat(r.Max)}
}

// DateRange is a from/to date filter. Either bound may be nil.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

func (r DateRange) clone() DateRange {
	return DateRange{From: copyTime(r.From), To: copyTime(r.To)}
}

// Tristate is a yes/no filter that can also be unset ("any").
// It marshals to true, false or null.
type Tristate struct {
	Valid bool
	Value bool
}

// TristateOf builds a set Tristate.
func TristateOf(v bool) Tristate {
	return Tristate{Valid: true, Value: v}
}

func (t Tristate) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (t *Tristate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Tristate{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Tristate{Valid: true, Value: v}
	return nil
}

// FilterValues is the canonical filter record driving company search.
// Municipality and County are mutually exclusive; the store's setters
// keep them that way. Clamping of numeric ranges happens only at the
// query-parameter boundary, never on the stored values.
type FilterValues struct {
	SearchQuery  string `json:"search_query"`
	Naeringskode string `json:"naeringskode"`

	Municipality     string `json:"municipality"`
	MunicipalityCode string `json:"municipality_code"`
	County           string `json:"county"`
	CountyCode       string `json:"county_code"`

	OrganizationForms []string `json:"organization_forms"`

	Revenue         NumericRange `json:"revenue"`
	Profit          NumericRange `json:"profit"`
	Equity          NumericRange `json:"equity"`
	OperatingProfit NumericRange `json:"operating_profit"`
	LiquidityRatio  NumericRange `json:"liquidity_ratio"`
	EquityRatio     NumericRange `json:"equity_ratio"`
	Employees       NumericRange `json:"employees"`

	Founded  DateRange `json:"founded"`
	Bankrupt DateRange `json:"bankrupt"`

	IsBankrupt          Tristate `json:"is_bankrupt"`
	InLiquidation       Tristate `json:"in_liquidation"`
	InForcedLiquidation Tristate `json:"in_forced_liquidation"`
	HasAccounting       Tristate `json:"has_accounting"`

	SortBy    SortField `json:"sort_by"`
	SortOrder SortOrder `json:"sort_order"`
}

// DefaultFilterValues returns the unfiltered configuration.
func DefaultFilterValues() FilterValues {
	return FilterValues{
		OrganizationForms: []string{},
		SortBy:            SortByName,
		SortOrder:         SortAscending,
	}
}

// Range returns the numeric range for the given field.
func (v FilterValues) Range(f RangeField) NumericRange {
	switch f {
	case RangeRevenue:
		return v.Revenue
	case RangeProfit:
		return v.Profit
	case RangeEquity:
		return v.Equity
	case RangeOperatingProfit:
		return v.OperatingProfit
	case RangeLiquidityRatio:
		return v.LiquidityRatio
	case RangeEquityRatio:
		return v.EquityRatio
	case RangeEmployees:
		return v.Employees
	}
	return NumericRange{}
}

// SetRange replaces the numeric range for the given field.
func (v *FilterValues) SetRange(f RangeField, r NumericRange) {
	switch f {
	case RangeRevenue:
		v.Revenue = r
	case RangeProfit:
		v.Profit = r
	case RangeEquity:
		v.Equity = r
	case RangeOperatingProfit:
		v.OperatingProfit = r
	case RangeLiquidityRatio:
		v.LiquidityRatio = r
	case RangeEquityRatio:
		v.EquityRatio = r
	case RangeEmployees:
		v.Employees = r
	}
}

// Clone returns a deep copy. Drafts edit clones so pointer-typed bounds
// never alias the applied state.
func (v FilterValues) Clone() FilterValues {
	c := v
	c.OrganizationForms = append([]string(nil), v.OrganizationForms...)
	if c.OrganizationForms == nil {
		c.OrganizationForms = []string{}
	}
	c.Revenue = v.Revenue.clone()
	c.Profit = v.Profit.clone()
	c.Equity = v.Equity.clone()
	c.OperatingProfit = v.OperatingProfit.clone()
	c.LiquidityRatio = v.LiquidityRatio.clone()
	c.EquityRatio = v.EquityRatio.clone()
	c.Employees = v.Employees.clone()
	c.Founded = v.Founded.clone()
	c.Bankrupt = v.Bankrupt.clone()
	return c
}

// ActiveFilterCount returns the number of filter concepts set to a
// non-default value. A min/max pair counts once even when both bounds
// are set, the organization form set counts once however many codes it
// holds, and each tri-state flag counts once when set. Sort is always
// configured and never counts.
func ActiveFilterCount(v FilterValues) int {
	count := 0
	if v.SearchQuery != "" {
		count++
	}
	if v.Naeringskode != "" {
		count++
	}
	if v.Municipality != "" {
		count++
	}
	if v.County != "" {
		count++
	}
	if len(v.OrganizationForms) > 0 {
		count++
	}
	for _, f := range RangeFields {
		if !v.Range(f).IsZero() {
			count++
		}
	}
	if !v.Founded.IsZero() {
		count++
	}
	if !v.Bankrupt.IsZero() {
		count++
	}
	for _, t := range []Tristate{v.IsBankrupt, v.InLiquidation, v.InForcedLiquidation, v.HasAccounting} {
		if t.Valid {
			count++
		}
	}
	return count
}

// FilterPatch is a partial FilterValues; nil fields are left untouched
// by Store.SetAllFilters. Applying a draft uses a full patch, loading a
// saved filter uses whatever subset the snapshot holds.
type FilterPatch struct {
	SearchQuery  *string `json:"search_query"`
	Naeringskode *string `json:"naeringskode"`

	Municipality     *string `json:"municipality"`
	MunicipalityCode *string `json:"municipality_code"`
	County           *string `json:"county"`
	CountyCode       *string `json:"county_code"`

	OrganizationForms *[]string `json:"organization_forms"`

	Revenue         *NumericRange `json:"revenue"`
	Profit          *NumericRange `json:"profit"`
	Equity          *NumericRange `json:"equity"`
	OperatingProfit *NumericRange `json:"operating_profit"`
	LiquidityRatio  *NumericRange `json:"liquidity_ratio"`
	EquityRatio     *NumericRange `json:"equity_ratio"`
	Employees       *NumericRange `json:"employees"`

	Founded  *DateRange `json:"founded"`
	Bankrupt *DateRange `json:"bankrupt"`

	IsBankrupt          *Tristate `json:"is_bankrupt"`
	InLiquidation       *Tristate `json:"in_liquidation"`
	InForcedLiquidation *Tristate `json:"in_forced_liquidation"`
	HasAccounting       *Tristate `json:"has_accounting"`

	SortBy    *SortField `json:"sort_by"`
	SortOrder *SortOrder `json:"sort_order"`
}

// PatchFrom builds a full patch out of a value set, for atomic applies.
func PatchFrom(v FilterValues) FilterPatch {
	c := v.Clone()
	return FilterPatch{
		SearchQuery:         &c.SearchQuery,
		Naeringskode:        &c.Naeringskode,
		Municipality:        &c.Municipality,
		MunicipalityCode:    &c.MunicipalityCode,
		County:              &c.County,
		CountyCode:          &c.CountyCode,
		OrganizationForms:   &c.OrganizationForms,
		Revenue:             &c.Revenue,
		Profit:              &c.Profit,
		Equity:              &c.Equity,
		OperatingProfit:     &c.OperatingProfit,
		LiquidityRatio:      &c.LiquidityRatio,
		EquityRatio:         &c.EquityRatio,
		Employees:           &c.Employees,
		Founded:             &c.Founded,
		Bankrupt:            &c.Bankrupt,
		IsBankrupt:          &c.IsBankrupt,
		InLiquidation:       &c.InLiquidation,
		InForcedLiquidation: &c.InForcedLiquidation,
		HasAccounting:       &c.HasAccounting,
		SortBy:              &c.SortBy,
		SortOrder:           &c.SortOrder,
	}
}

// ApplyTo merges the set fields of the patch into dst.
func (p FilterPatch) ApplyTo(dst *FilterValues) {
	if p.SearchQuery != nil {
		dst.SearchQuery = *p.SearchQuery
	}
	if p.Naeringskode != nil {
		dst.Naeringskode = *p.Naeringskode
	}
	if p.Municipality != nil {
		dst.Municipality = *p.Municipality
	}
	if p.MunicipalityCode != nil {
		dst.MunicipalityCode = *p.MunicipalityCode
	}
	if p.County != nil {
		dst.County = *p.County
	}
	if p.CountyCode != nil {
		dst.CountyCode = *p.CountyCode
	}
	if p.OrganizationForms != nil {
		dst.OrganizationForms = append([]string(nil), (*p.OrganizationForms)...)
	}
	if p.Revenue != nil {
		dst.Revenue = p.Revenue.clone()
	}
	if p.Profit != nil {
		dst.Profit = p.Profit.clone()
	}
	if p.Equity != nil {
		dst.Equity = p.Equity.clone()
	}
	if p.OperatingProfit != nil {
		dst.OperatingProfit = p.OperatingProfit.clone()
	}
	if p.LiquidityRatio != nil {
		dst.LiquidityRatio = p.LiquidityRatio.clone()
	}
	if p.EquityRatio != nil {
		dst.EquityRatio = p.EquityRatio.clone()
	}
	if p.Employees != nil {
		dst.Employees = p.Employees.clone()
	}
	if p.Founded != nil {
		dst.Founded = p.Founded.clone()
	}
	if p.Bankrupt != nil {
		dst.Bankrupt = p.Bankrupt.clone()
	}
	if p.IsBankrupt != nil {
		dst.IsBankrupt = *p.IsBankrupt
	}
	if p.InLiquidation != nil {
		dst.InLiquidation = *p.InLiquidation
	}
	if p.InForcedLiquidation != nil {
		dst.InForcedLiquidation = *p.InForcedLiquidation
	}
	if p.HasAccounting != nil {
		dst.HasAccounting = *p.HasAccounting
	}
	if p.SortBy != nil {
		dst.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		dst.SortOrder = *p.SortOrder
	}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
