package model

// Company is a single registry entry as returned by the upstream
// company registry's list endpoint.
type Company struct {
	OrganisasjonsNummer string   `json:"organisasjonsnummer"`
	Name                string   `json:"name"`
	OrganizationForm    string   `json:"organisasjonsform,omitempty"`
	Naeringskode        string   `json:"naeringskode,omitempty"`
	NaeringsBeskrivelse string   `json:"naeringskode_beskrivelse,omitempty"`
	Municipality        string   `json:"municipality,omitempty"`
	County              string   `json:"county,omitempty"`
	FoundedDate         string   `json:"founded_date,omitempty"`
	BankruptcyDate      string   `json:"bankruptcy_date,omitempty"`
	IsBankrupt          bool     `json:"is_bankrupt"`
	InLiquidation       bool     `json:"in_liquidation"`
	InForcedLiquidation bool     `json:"in_forced_liquidation"`
	HasAccounting       bool     `json:"has_accounting"`
	Employees           *int     `json:"employees,omitempty"`
	Revenue             *int64   `json:"revenue,omitempty"`
	Profit              *int64   `json:"profit,omitempty"`
	Equity              *int64   `json:"equity,omitempty"`
	OperatingProfit     *int64   `json:"operating_profit,omitempty"`
	LiquidityRatio      *float64 `json:"liquidity_ratio,omitempty"`
	EquityRatio         *float64 `json:"equity_ratio,omitempty"`
	Website             string   `json:"website,omitempty"`
}

// SearchResult is the paginated company list envelope.
type SearchResult struct {
	Companies []Company `json:"companies"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
}

// CountResult is the count endpoint envelope.
type CountResult struct {
	Count int `json:"count"`
}

// CompanyStats is the aggregate-stats endpoint envelope. All three
// search endpoints accept the identical filter parameter shape.
type CompanyStats struct {
	Count             int     `json:"count"`
	TotalRevenue      int64   `json:"total_revenue"`
	TotalEmployees    int     `json:"total_employees"`
	AvgRevenue        float64 `json:"avg_revenue"`
	AvgProfit         float64 `json:"avg_profit"`
	AvgEquityRatio    float64 `json:"avg_equity_ratio"`
	AvgLiquidityRatio float64 `json:"avg_liquidity_ratio"`
	BankruptCount     int     `json:"bankrupt_count"`
}

// CodeEntry is a machine code with its human-readable name, as used by
// the organization form and municipality lookup endpoints.
type CodeEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
