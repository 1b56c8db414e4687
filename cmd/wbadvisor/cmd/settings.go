package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/config"
	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

// aircraftFlags selects the aircraft on commands that compute.
type aircraftFlags struct {
	preset string
	file   string
}

func (f *aircraftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "aircraft", "", "Aircraft preset (see 'wbadvisor aircraft list')")
	cmd.Flags().StringVar(&f.file, "aircraft-file", "", "Aircraft YAML file (overrides --aircraft)")
}

// unitFlags override the configured default units.
type unitFlags struct {
	input string
	fuel  string
}

func (f *unitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "unit", "", "Default unit for station weights: lb or kg")
	cmd.Flags().StringVar(&f.fuel, "fuel-unit", "", "Default unit for fuel and burn: lb, kg or gal")
}

// settings is the resolved configuration a command runs with.
type settings struct {
	cfg      *config.Config
	aircraft *aircraft.Config
}

// loadConfig loads the configuration for the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return config.Load(cwd)
}

// loadSettings loads configuration and resolves the aircraft, with flags
// taking precedence over configured values.
func loadSettings(f aircraftFlags) (*settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	sel := cfg.Aircraft
	switch {
	case f.file != "":
		sel = config.AircraftConfig{File: f.file}
	case f.preset != "":
		sel = config.AircraftConfig{Preset: f.preset}
	}

	ac, err := aircraft.Resolve(sel)
	if err != nil {
		return nil, err
	}
	// Commands that follow reloads read this back as the file to watch.
	cfg.Aircraft = sel
	return &settings{cfg: cfg, aircraft: ac}, nil
}

// inputUnits returns the configured units with flag overrides applied.
func (s *settings) inputUnits(f unitFlags) (payload.Units, error) {
	in := s.cfg.Units.Input
	if f.input != "" {
		in = f.input
	}
	fuel := s.cfg.Units.Fuel
	if f.fuel != "" {
		fuel = f.fuel
	}

	inUnit, err := units.ParseUnit(in)
	if err != nil {
		return payload.Units{}, err
	}
	if !inUnit.IsMass() {
		return payload.Units{}, wberrors.New(wberrors.ErrCodeInvalidUnit,
			fmt.Sprintf("station weights cannot be entered in %s", inUnit), nil).
			WithSuggestion("use --unit lb or --unit kg; gallons apply to fuel only")
	}
	fuelUnit, err := units.ParseUnit(fuel)
	if err != nil {
		return payload.Units{}, err
	}
	return payload.Units{Input: inUnit, Fuel: fuelUnit}, nil
}
