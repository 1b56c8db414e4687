package payload

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

func reference(t *testing.T) *aircraft.Config {
	t.Helper()
	cfg, err := aircraft.Preset("c182-reference")
	require.NoError(t, err)
	return cfg
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"170", 170},
		{" 42.5 ", 42.5},
		{"", 0},
		{"abc", 0},
		{"-20", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-Inf", 0},
		{"1e400", 0},
		{"1e3", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.in))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		def      units.Unit
		wantAmt  float64
		wantUnit units.Unit
		wantCode string
	}{
		{"80", units.Pounds, 80, units.Pounds, ""},
		{"80kg", units.Pounds, 80, units.Kilograms, ""},
		{"80 KG", units.Pounds, 80, units.Kilograms, ""},
		{"50gal", units.Pounds, 50, units.Gallons, ""},
		{"12.", units.Kilograms, 12, units.Kilograms, ""},
		{"abc", units.Kilograms, 0, units.Kilograms, ""},
		{"-5lb", units.Pounds, 0, units.Pounds, ""},
		{"80stone", units.Pounds, 0, "", wberrors.ErrCodeInvalidUnit},
		{"٣", units.Pounds, 0, units.Pounds, ""},
		{"８０", units.Kilograms, 0, units.Kilograms, ""},
		{"8٣", units.Pounds, 0, units.Pounds, ""},
		{"٣kg", units.Pounds, 0, units.Pounds, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			amt, unit, err := ParseAmount(tt.in, tt.def)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, wberrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmt, amt)
			assert.Equal(t, tt.wantUnit, unit)
		})
	}
}

func TestParseEntry(t *testing.T) {
	cfg := reference(t)
	kgFuelGal := Units{Input: units.Kilograms, Fuel: units.Gallons}

	tests := []struct {
		name     string
		entry    string
		u        Units
		wantID   aircraft.StationID
		wantLbs  float64
		wantCode string
	}{
		{"pounds default", "pilot=170", DefaultUnits, "pilot", 170, ""},
		{"kg suffix", "pilot=80kg", DefaultUnits, "pilot", 80 * units.LbsPerKg, ""},
		{"kg default unit", "pilot=80", kgFuelGal, "pilot", 80 * units.LbsPerKg, ""},
		{"fuel gallons suffix", "fuel=50gal", DefaultUnits, "fuel", 300, ""},
		{"fuel default gallons", "fuel=50", kgFuelGal, "fuel", 300, ""},
		{"fuel lb overrides default", "fuel=300lb", kgFuelGal, "fuel", 300, ""},
		{"malformed number is zero", "copilot=lots", DefaultUnits, "copilot", 0, ""},
		{"arabic-indic digit is zero", "pilot=٣", DefaultUnits, "pilot", 0, ""},
		{"full-width digits are zero", "fuel=８０", kgFuelGal, "fuel", 0, ""},
		{"spaces around parts", " rear_seats = 340 ", DefaultUnits, "rear_seats", 340, ""},
		{"gallons on a seat", "pilot=20gal", DefaultUnits, "", 0, wberrors.ErrCodeInvalidUnit},
		{"unknown station", "cargo=10", DefaultUnits, "", 0, wberrors.ErrCodeUnknownStation},
		{"missing equals", "pilot170", DefaultUnits, "", 0, wberrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, lbs, err := ParseEntry(cfg, tt.entry, tt.u)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, wberrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.InDelta(t, tt.wantLbs, lbs, 1e-9)
		})
	}
}

func TestParse_BuildsStateAndBurn(t *testing.T) {
	// Given: entries with a repeated station and a burn in gallons
	cfg := reference(t)

	// When: parsing
	st, err := Parse(cfg, []string{"pilot=150", "fuel=300", "pilot=170"}, "10gal", DefaultUnits)

	// Then: the last entry wins and burn converts to pounds
	require.NoError(t, err)
	want := State{
		Weights:         map[aircraft.StationID]float64{"pilot": 170, "fuel": 300},
		PlannedFuelBurn: 60,
	}
	assert.Empty(t, cmp.Diff(want, st))
}

func TestParse_PropagatesEntryErrors(t *testing.T) {
	_, err := Parse(reference(t), []string{"pilot=170", "wing=5"}, "", DefaultUnits)
	assert.Equal(t, wberrors.ErrCodeUnknownStation, wberrors.GetCode(err))

	_, err = Parse(reference(t), nil, "5furlongs", DefaultUnits)
	assert.Equal(t, wberrors.ErrCodeInvalidUnit, wberrors.GetCode(err))
}

func TestState_CloneIsDeep(t *testing.T) {
	// Given: a state and its clone
	st := New()
	st.Set("pilot", 170)
	clone := st.Clone()

	// When: mutating the clone
	clone.Set("pilot", 200)

	// Then: the original is untouched
	assert.Equal(t, 170.0, st.Weight("pilot"))
	assert.Equal(t, 200.0, clone.Weight("pilot"))
}

func TestState_SanitizeClampsInvalidValues(t *testing.T) {
	st := State{
		Weights: map[aircraft.StationID]float64{
			"pilot": -10, "fuel": math.NaN(), "copilot": math.Inf(1), "rear_seats": 120,
		},
		PlannedFuelBurn: math.Inf(-1),
	}

	clean := st.Sanitize()

	assert.Equal(t, 0.0, clean.Weight("pilot"))
	assert.Equal(t, 0.0, clean.Weight("fuel"))
	assert.Equal(t, 0.0, clean.Weight("copilot"))
	assert.Equal(t, 120.0, clean.Weight("rear_seats"))
	assert.Equal(t, 0.0, clean.PlannedFuelBurn)
	assert.Equal(t, -10.0, st.Weights["pilot"])
}

func TestState_ZeroValueIsUsable(t *testing.T) {
	var st State
	assert.Equal(t, 0.0, st.Weight("pilot"))
	st.Set("pilot", -1)
	assert.Equal(t, 0.0, st.Weight("pilot"))
	assert.Equal(t, []aircraft.StationID{"pilot"}, st.StationIDs())
}
