package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func TestActiveFilterCountRangePairIsOneConcept(t *testing.T) {
	v := DefaultFilterValues()
	v.Revenue = NumericRange{Min: f64(1000), Max: f64(2000)}

	assert.Equal(t, 1, ActiveFilterCount(v))
}

func TestActiveFilterCountIndependentConcepts(t *testing.T) {
	v := DefaultFilterValues()
	v.SearchQuery = "bygg"
	v.OrganizationForms = []string{"AS", "ENK"}
	v.IsBankrupt = TristateOf(true)

	assert.Equal(t, 3, ActiveFilterCount(v))
}

func TestActiveFilterCountDefaultsToZero(t *testing.T) {
	assert.Equal(t, 0, ActiveFilterCount(DefaultFilterValues()))
}

func TestActiveFilterCountFalseFlagStillCounts(t *testing.T) {
	v := DefaultFilterValues()
	v.HasAccounting = TristateOf(false)

	assert.Equal(t, 1, ActiveFilterCount(v), "a flag set to false is a non-default value")
}

func TestTristateJSONRoundTrip(t *testing.T) {
	cases := []struct {
		in   Tristate
		want string
	}{
		{Tristate{}, "null"},
		{TristateOf(true), "true"},
		{TristateOf(false), "false"},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(raw))

		var back Tristate
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, tc.in, back)
	}
}

func TestCloneDetachesPointers(t *testing.T) {
	v := DefaultFilterValues()
	v.Revenue = NumericRange{Min: f64(500)}
	v.OrganizationForms = []string{"AS"}

	c := v.Clone()
	*c.Revenue.Min = 999
	c.OrganizationForms[0] = "ENK"

	assert.Equal(t, float64(500), *v.Revenue.Min)
	assert.Equal(t, "AS", v.OrganizationForms[0])
}

func TestPatchFromProducesFullCopy(t *testing.T) {
	v := DefaultFilterValues()
	v.SearchQuery = "alt"
	v.County = "Agder"
	v.EquityRatio = NumericRange{Max: f64(0.8)}

	var dst FilterValues
	PatchFrom(v).ApplyTo(&dst)

	assert.Equal(t, v, dst)
}

func TestApplyToLeavesNilFieldsUntouched(t *testing.T) {
	dst := DefaultFilterValues()
	dst.SearchQuery = "keep"
	dst.IsBankrupt = TristateOf(true)

	name := "changed"
	FilterPatch{Naeringskode: &name}.ApplyTo(&dst)

	assert.Equal(t, "keep", dst.SearchQuery)
	assert.Equal(t, "changed", dst.Naeringskode)
	assert.Equal(t, TristateOf(true), dst.IsBankrupt)
}

func TestSavedFilterSnapshotRoundTrip(t *testing.T) {
	from := time.Date(2020, time.May, 17, 0, 0, 0, 0, time.UTC)
	v := DefaultFilterValues()
	v.SearchQuery = "sjømat"
	v.Founded = DateRange{From: &from}
	v.Profit = NumericRange{Min: f64(-10000)}
	v.InLiquidation = TristateOf(false)

	snap := SnapshotFromValues(v)
	assert.Equal(t, "2020-05-17", snap.FoundedFrom)
	assert.Equal(t, "", snap.FoundedTo, "unset dates persist as empty strings")

	back := snap.Values()
	assert.Equal(t, v, back)
}

func TestSavedFilterSnapshotSurvivesJSON(t *testing.T) {
	v := DefaultFilterValues()
	v.Bankrupt = DateRange{To: func() *time.Time {
		d := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}()}

	snap := SnapshotFromValues(v)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var back SavedFilterSnapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "2023-02-01", back.BankruptTo)
}

func TestSnapshotIgnoresUnparseableDates(t *testing.T) {
	snap := SavedFilterSnapshot{FoundedFrom: "not-a-date"}
	assert.Nil(t, snap.Values().Founded.From)
}

func TestRangeAccessorsCoverAllFields(t *testing.T) {
	v := DefaultFilterValues()
	for i, f := range RangeFields {
		r := NumericRange{Min: f64(float64(i))}
		v.SetRange(f, r)
		assert.Equal(t, r, v.Range(f))
	}
	assert.Equal(t, len(RangeFields), ActiveFilterCount(v))
}
