package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

func TestLoadSettings_Precedence(t *testing.T) {
	isolate(t)
	t.Setenv("WBADVISOR_AIRCRAFT", "c182-reference")

	// Environment selects the preset
	s, err := loadSettings(aircraftFlags{})
	require.NoError(t, err)
	assert.Equal(t, "c182-reference", s.aircraft.Name)

	// --aircraft beats the environment
	s, err = loadSettings(aircraftFlags{preset: "c182t"})
	require.NoError(t, err)
	assert.Equal(t, "c182t", s.cfg.Aircraft.Preset)

	// --aircraft-file beats --aircraft and is kept for watching
	_, err = loadSettings(aircraftFlags{preset: "c182t", file: filepath.Join(t.TempDir(), "none.yaml")})
	require.Error(t, err)
}

func TestLoadSettings_FileIsRecorded(t *testing.T) {
	isolate(t)
	out, err := run(t, "aircraft", "show", "--aircraft", "c182-reference", "--json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ref.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	s, err := loadSettings(aircraftFlags{file: path})

	require.NoError(t, err)
	assert.Equal(t, path, s.cfg.Aircraft.AircraftFile())
	assert.Empty(t, s.cfg.Aircraft.Preset)
}

func TestSettings_InputUnits(t *testing.T) {
	isolate(t)
	t.Setenv("WBADVISOR_FUEL_UNIT", "gal")
	s, err := loadSettings(aircraftFlags{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		flags   unitFlags
		want    payload.Units
		wantErr bool
	}{
		{name: "configured", want: payload.Units{Input: units.Pounds, Fuel: units.Gallons}},
		{name: "flags override", flags: unitFlags{input: "kg", fuel: "lb"}, want: payload.Units{Input: units.Kilograms, Fuel: units.Pounds}},
		{name: "volume input", flags: unitFlags{input: "gal"}, wantErr: true},
		{name: "unknown fuel unit", flags: unitFlags{fuel: "litres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.inputUnits(tt.flags)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlay(t *testing.T) {
	base := payload.New()
	base.Set("pilot", 170)
	base.PlannedFuelBurn = 60
	entries := payload.New()
	entries.Set("fuel", 300)

	got := overlay(base, entries, false)

	assert.Equal(t, 170.0, got.Weight("pilot"))
	assert.Equal(t, 300.0, got.Weight("fuel"))
	assert.Equal(t, 60.0, got.PlannedFuelBurn)
	// base is untouched
	assert.Zero(t, base.Weight("fuel"))

	assert.Zero(t, overlay(base, entries, true).PlannedFuelBurn)
}
