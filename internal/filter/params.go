package filter

import (
	"net/url"
	"strconv"
	"time"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
)

// paramDateLayout is the date-only form the registry expects.
const paramDateLayout = "2006-01-02"

// rangeParam maps one numeric range filter onto its backend keys and
// clamp rule. Bounds are clamped independently; min > max is left for
// the backend to resolve.
type rangeParam struct {
	field  model.RangeField
	minKey string
	maxKey string
	clamp  func(float64) float64
}

var rangeParams = []rangeParam{
	{model.RangeRevenue, "min_revenue", "max_revenue", clampMinZero},
	{model.RangeProfit, "min_profit", "max_profit", nil},
	{model.RangeEquity, "min_equity", "max_equity", clampMinZero},
	{model.RangeOperatingProfit, "min_operating_profit", "max_operating_profit", nil},
	{model.RangeLiquidityRatio, "min_liquidity_ratio", "max_liquidity_ratio", clampMinZero},
	{model.RangeEquityRatio, "min_equity_ratio", "max_equity_ratio", clampUnit},
	{model.RangeEmployees, "min_employees", "max_employees", clampMinZero},
}

// QueryParams derives the backend search parameters from a filter value
// set. It is pure: no field of v is modified, clamping applies only to
// the derived output. Unset fields produce no key at all, so the
// backend's own defaults apply.
func QueryParams(v model.FilterValues) url.Values {
	q := url.Values{}

	if v.SearchQuery != "" {
		q.Set("name", v.SearchQuery)
	}
	for _, code := range v.OrganizationForms {
		q.Add("organisasjonsform", code)
	}
	if v.Naeringskode != "" {
		q.Set("naeringskode", v.Naeringskode)
	}
	if v.Municipality != "" {
		q.Set("municipality", v.Municipality)
	}
	if v.County != "" {
		q.Set("county", v.County)
	}

	for _, p := range rangeParams {
		r := v.Range(p.field)
		setBound(q, p.minKey, r.Min, p.clamp)
		setBound(q, p.maxKey, r.Max, p.clamp)
	}

	setDate(q, "founded_from", v.Founded.From)
	setDate(q, "founded_to", v.Founded.To)
	setDate(q, "bankrupt_from", v.Bankrupt.From)
	setDate(q, "bankrupt_to", v.Bankrupt.To)

	setFlag(q, "is_bankrupt", v.IsBankrupt)
	setFlag(q, "in_liquidation", v.InLiquidation)
	setFlag(q, "in_forced_liquidation", v.InForcedLiquidation)
	setFlag(q, "has_accounting", v.HasAccounting)

	return q
}

func setBound(q url.Values, key string, bound *float64, clamp func(float64) float64) {
	if bound == nil {
		return
	}
	val := *bound
	if clamp != nil {
		val = clamp(val)
	}
	q.Set(key, strconv.FormatFloat(val, 'f', -1, 64))
}

func setDate(q url.Values, key string, t *time.Time) {
	if t == nil {
		return
	}
	q.Set(key, t.Format(paramDateLayout))
}

func setFlag(q url.Values, key string, t model.Tristate) {
	if !t.Valid {
		return
	}
	q.Set(key, strconv.FormatBool(t.Value))
}

func clampMinZero(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
