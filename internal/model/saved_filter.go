package model

import (
	"time"
)

// savedDateLayout is the date-only form used inside persisted snapshots.
// Saved filters must survive JSON round-trips through durable storage,
// so snapshot dates are ISO strings rather than time values.
const savedDateLayout = "2006-01-02"

// SavedFilter is a named, persisted snapshot of filter values,
// independent of the live applied filters.
type SavedFilter struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Filters   SavedFilterSnapshot `json:"filters"`
}

// SavedFilterSnapshot mirrors FilterValues with date bounds flattened
// to ISO date strings.
type SavedFilterSnapshot struct {
	SearchQuery  string `json:"search_query,omitempty"`
	Naeringskode string `json:"naeringskode,omitempty"`

	Municipality     string `json:"municipality,omitempty"`
	MunicipalityCode string `json:"municipality_code,omitempty"`
	County           string `json:"county,omitempty"`
	CountyCode       string `json:"county_code,omitempty"`

	OrganizationForms []string `json:"organization_forms,omitempty"`

	Revenue         NumericRange `json:"revenue"`
	Profit          NumericRange `json:"profit"`
	Equity          NumericRange `json:"equity"`
	OperatingProfit NumericRange `json:"operating_profit"`
	LiquidityRatio  NumericRange `json:"liquidity_ratio"`
	EquityRatio     NumericRange `json:"equity_ratio"`
	Employees       NumericRange `json:"employees"`

	FoundedFrom  string `json:"founded_from,omitempty"`
	FoundedTo    string `json:"founded_to,omitempty"`
	BankruptFrom string `json:"bankrupt_from,omitempty"`
	BankruptTo   string `json:"bankrupt_to,omitempty"`

	IsBankrupt          Tristate `json:"is_bankrupt"`
	InLiquidation       Tristate `json:"in_liquidation"`
	InForcedLiquidation Tristate `json:"in_forced_liquidation"`
	HasAccounting       Tristate `json:"has_accounting"`

	SortBy    SortField `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// SnapshotFromValues converts live filter values into the persisted form.
func SnapshotFromValues(v FilterValues) SavedFilterSnapshot {
	c := v.Clone()
	return SavedFilterSnapshot{
		SearchQuery:         c.SearchQuery,
		Naeringskode:        c.Naeringskode,
		Municipality:        c.Municipality,
		MunicipalityCode:    c.MunicipalityCode,
		County:              c.County,
		CountyCode:          c.CountyCode,
		OrganizationForms:   c.OrganizationForms,
		Revenue:             c.Revenue,
		Profit:              c.Profit,
		Equity:              c.Equity,
		OperatingProfit:     c.OperatingProfit,
		LiquidityRatio:      c.LiquidityRatio,
		EquityRatio:         c.EquityRatio,
		Employees:           c.Employees,
		FoundedFrom:         formatSavedDate(c.Founded.From),
		FoundedTo:           formatSavedDate(c.Founded.To),
		BankruptFrom:        formatSavedDate(c.Bankrupt.From),
		BankruptTo:          formatSavedDate(c.Bankrupt.To),
		IsBankrupt:          c.IsBankrupt,
		InLiquidation:       c.InLiquidation,
		InForcedLiquidation: c.InForcedLiquidation,
		HasAccounting:       c.HasAccounting,
		SortBy:              c.SortBy,
		SortOrder:           c.SortOrder,
	}
}

// Values converts a persisted snapshot back into live filter values.
// Unparseable dates are treated as unset.
func (s SavedFilterSnapshot) Values() FilterValues {
	v := DefaultFilterValues()
	v.SearchQuery = s.SearchQuery
	v.Naeringskode = s.Naeringskode
	v.Municipality = s.Municipality
	v.MunicipalityCode = s.MunicipalityCode
	v.County = s.County
	v.CountyCode = s.CountyCode
	if len(s.OrganizationForms) > 0 {
		v.OrganizationForms = append([]string(nil), s.OrganizationForms...)
	}
	v.Revenue = s.Revenue.clone()
	v.Profit = s.Profit.clone()
	v.Equity = s.Equity.clone()
	v.OperatingProfit = s.OperatingProfit.clone()
	v.LiquidityRatio = s.LiquidityRatio.clone()
	v.EquityRatio = s.EquityRatio.clone()
	v.Employees = s.Employees.clone()
	v.Founded = DateRange{From: parseSavedDate(s.FoundedFrom), To: parseSavedDate(s.FoundedTo)}
	v.Bankrupt = DateRange{From: parseSavedDate(s.BankruptFrom), To: parseSavedDate(s.BankruptTo)}
	v.IsBankrupt = s.IsBankrupt
	v.InLiquidation = s.InLiquidation
	v.InForcedLiquidation = s.InForcedLiquidation
	v.HasAccounting = s.HasAccounting
	if s.SortBy != "" {
		v.SortBy = s.SortBy
	}
	if s.SortOrder != "" {
		v.SortOrder = s.SortOrder
	}
	return v
}

func formatSavedDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(savedDateLayout)
}

func parseSavedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(savedDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
