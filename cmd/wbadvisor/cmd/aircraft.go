package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/output"
)

func newAircraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aircraft",
		Short: "Inspect aircraft data sets",
		Long: `Inspect the embedded aircraft presets and validate aircraft files.

The aircraft used by other commands is chosen, highest precedence first, by
--aircraft-file, --aircraft, aircraft.file and aircraft.preset in the
configuration, falling back to the c182t preset.`,
		Example: `  # List the embedded presets
  wbadvisor aircraft list

  # Show stations, limits and envelope of a preset
  wbadvisor aircraft show --aircraft c182-reference

  # Check an aircraft file before using it
  wbadvisor aircraft validate ./n12345.yaml`,
	}

	cmd.AddCommand(newAircraftListCmd())
	cmd.AddCommand(newAircraftShowCmd())
	cmd.AddCommand(newAircraftValidateCmd())

	return cmd
}

func newAircraftListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List embedded aircraft presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := make([][]string, 0)
			for _, name := range aircraft.Presets() {
				cfg, err := aircraft.Preset(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					cfg.Name,
					cfg.Model,
					formatLbs(cfg.Limits.MaxWeight),
					strconv.Itoa(len(cfg.Stations)),
				})
			}
			output.New(cmd.OutOrStdout()).Table(
				[]string{"PRESET", "NAME", "MODEL", "MAX WEIGHT", "STATIONS"}, rows)
			return nil
		},
	}
}

func newAircraftShowCmd() *cobra.Command {
	var (
		ac         aircraftFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the selected aircraft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(ac)
			if err != nil {
				return err
			}
			out := output.New(cmd.OutOrStdout())
			if jsonOutput {
				return out.JSON(s.aircraft)
			}
			showAircraft(out, s.aircraft)
			return nil
		},
	}

	ac.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newAircraftValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an aircraft YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := aircraft.Load(args[0])
			if err != nil {
				return err
			}
			out := output.New(cmd.OutOrStdout())
			out.Successf("%s is valid", cfg.Name)
			out.Statusf("", "%d stations, max weight %s lb, envelope %s-%s lb",
				len(cfg.Stations),
				formatLbs(cfg.Limits.MaxWeight),
				formatLbs(cfg.Envelope.MinWeight),
				formatLbs(cfg.Envelope.MaxWeight))
			return nil
		},
	}
}

func showAircraft(out *output.Writer, cfg *aircraft.Config) {
	title := cfg.Name
	if cfg.Model != "" {
		title = fmt.Sprintf("%s (%s)", cfg.Name, cfg.Model)
	}
	out.Status("✈", title)
	out.Statusf("", "Empty weight:  %s lb at %.2f in (moment %.1f)", formatLbs(cfg.EmptyWeight), cfg.EmptyCG, cfg.EmptyMoment())
	out.Statusf("", "Max weight:    %s lb take-off, %s lb landing", formatLbs(cfg.Limits.MaxWeight), formatLbs(cfg.Limits.LandingLimit()))
	if cfg.Limits.MaxBaggage > 0 {
		out.Statusf("", "Max baggage:   %s lb combined", formatLbs(cfg.Limits.MaxBaggage))
	}
	out.Newline()

	rows := make([][]string, 0, len(cfg.Stations))
	for _, st := range cfg.Stations {
		limit := "-"
		if lim, ok := cfg.StationMax(st.ID); ok {
			limit = formatLbs(lim)
		}
		kind := ""
		switch {
		case st.ID == cfg.FuelStation:
			kind = "fuel"
		case st.Baggage:
			kind = "baggage"
		}
		rows = append(rows, []string{string(st.ID), st.Label, fmt.Sprintf("%.1f", st.ArmValue()), limit, kind})
	}
	out.Table([]string{"STATION", "LABEL", "ARM", "MAX", "KIND"}, rows)
	out.Newline()

	env := cfg.Envelope
	envRows := [][]string{}
	for _, bp := range env.Forward {
		envRows = append(envRows, []string{"forward", formatLbs(bp.Weight), fmt.Sprintf("%.2f", bp.CG)})
	}
	for _, bp := range env.Aft {
		envRows = append(envRows, []string{"aft", formatLbs(bp.Weight), fmt.Sprintf("%.2f", bp.CG)})
	}
	out.Statusf("📐", "Envelope %s-%s lb", formatLbs(env.MinWeight), formatLbs(env.MaxWeight))
	out.Table([]string{"BOUNDARY", "WEIGHT", "CG"}, envRows)
}

func formatLbs(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
