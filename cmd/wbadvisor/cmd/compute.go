package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/balance"
	"github.com/Aman-CERP/wbadvisor/internal/output"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/ui"
)

// computeResult is the --json document of compute.
type computeResult struct {
	Report balance.Report `json:"report"`
	Safe   bool           `json:"safe"`
}

func newComputeCmd() *cobra.Command {
	var (
		ac          aircraftFlags
		uf          unitFlags
		burn        string
		profileName string
		jsonOutput  bool
		strict      bool
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "compute [station=weight[unit]...]",
		Short: "Compute weight and balance for a payload",
		Long: `Compute take-off, zero-fuel and landing weight, moment and CG for a
payload and check them against the aircraft's envelope and limits.

Each entry is station=amount with an optional unit suffix (lb, kg, or gal for
the fuel station). Entries without a suffix use --unit, or --fuel-unit for
fuel. Malformed amounts count as zero.

The exit status is 0 even when the load is unsafe, unless --strict is set,
in which case an unsafe load exits with status 2.`,
		Example: `  # Pilot and 50 gallons of fuel
  wbadvisor compute pilot=170 fuel=50gal

  # Kilograms, with a planned burn of 60 lb
  wbadvisor compute --unit kg pilot=80 copilot=75 fuel=300lb --burn 60lb

  # Start from a saved profile and change one station
  wbadvisor compute --profile solo baggage_a=40

  # Fail a script when the load is unsafe
  wbadvisor compute --strict pilot=170 fuel=300 || echo "check the load"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(ctxOf(cmd), cmd, computeOptions{
				aircraft:    ac,
				units:       uf,
				entries:     args,
				burn:        burn,
				profileName: profileName,
				jsonOutput:  jsonOutput,
				strict:      strict,
				noColor:     noColor,
			})
		},
	}

	ac.register(cmd)
	uf.register(cmd)
	cmd.Flags().StringVar(&burn, "burn", "", "Planned fuel burn, e.g. 60 or 10gal")
	cmd.Flags().StringVar(&profileName, "profile", "", "Start from a saved profile")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 2 when the load is unsafe")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

type computeOptions struct {
	aircraft    aircraftFlags
	units       unitFlags
	entries     []string
	burn        string
	profileName string
	jsonOutput  bool
	strict      bool
	noColor     bool
}

func runCompute(ctx context.Context, cmd *cobra.Command, opts computeOptions) error {
	s, err := loadSettings(opts.aircraft)
	if err != nil {
		return err
	}
	u, err := s.inputUnits(opts.units)
	if err != nil {
		return err
	}

	state, err := payload.Parse(s.aircraft, opts.entries, opts.burn, u)
	if err != nil {
		return err
	}

	if opts.profileName != "" {
		base, err := loadProfile(ctx, s, opts.profileName)
		if err != nil {
			return err
		}
		state = overlay(base.Weights, state, opts.burn != "")
	}

	report, err := balance.ComputeReport(s.aircraft, state)
	if err != nil {
		return err
	}

	slog.Debug("report_computed",
		slog.String("aircraft", report.Aircraft),
		slog.Float64("takeoff_weight", report.Takeoff.Weight),
		slog.Float64("takeoff_cg", report.Takeoff.CG),
		slog.Bool("safe", report.Safe()))

	out := output.New(cmd.OutOrStdout())
	if opts.jsonOutput {
		if err := out.JSON(computeResult{Report: report, Safe: report.Safe()}); err != nil {
			return err
		}
	} else {
		uiCfg := ui.NewConfig(cmd.OutOrStdout(), ui.WithUnit(u.Input))
		if opts.noColor {
			uiCfg.NoColor = true
		}
		out.Text(ui.RenderReport(report, uiCfg.Styles(), uiCfg.Unit))
	}

	if opts.strict && !report.Safe() {
		return ErrUnsafeLoad
	}
	return nil
}

func loadProfile(ctx context.Context, s *settings, name string) (profile.Profile, error) {
	store, err := profile.Open(s.cfg.Profiles)
	if err != nil {
		return profile.Profile{}, err
	}
	defer func() { _ = store.Close() }()
	return profile.Get(ctx, store, name)
}

// overlay applies entries on top of a saved payload. The saved burn is
// kept unless a new one was given.
func overlay(base, entries payload.State, burnSet bool) payload.State {
	st := base.Clone()
	for id, w := range entries.Weights {
		st.Set(id, w)
	}
	if burnSet {
		st.PlannedFuelBurn = entries.PlannedFuelBurn
	}
	return st
}
