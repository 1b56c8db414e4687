package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/output"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage saved payload profiles",
		Long: `Manage named payload profiles.

Profiles are stored in ~/.wbadvisor/profiles.json by default, or in SQLite
when profiles.backend is sqlite. Saving under an existing name replaces that
profile.`,
		Example: `  # Save a payload
  wbadvisor profile save solo pilot=170 fuel=50gal

  # List saved profiles
  wbadvisor profile list

  # Compute a saved profile
  wbadvisor compute --profile solo`,
	}

	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileSaveCmd())
	cmd.AddCommand(newProfileDeleteCmd())

	return cmd
}

// withProfileStore opens the configured store for the duration of fn.
func withProfileStore(fn func(s *settings, store profile.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := profile.Open(cfg.Profiles)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(&settings{cfg: cfg}, store)
}

func newProfileListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProfileStore(func(s *settings, store profile.Store) error {
				profiles, err := store.Load(ctxOf(cmd))
				if err != nil {
					return err
				}
				out := output.New(cmd.OutOrStdout())
				if jsonOutput {
					return out.JSON(profiles)
				}
				if len(profiles) == 0 {
					out.Status("📭", "No saved profiles")
					out.Status("💡", "Save one with 'wbadvisor profile save <name> station=weight...'")
					return nil
				}

				unit := displayUnit(s)
				rows := make([][]string, 0, len(profiles))
				for _, p := range profiles {
					rows = append(rows, []string{
						p.Name,
						formatAmount(totalWeight(p.Weights), unit),
						formatAmount(p.Weights.PlannedFuelBurn, unit),
						formatTimeAgo(p.SavedAt),
					})
				}
				out.Table([]string{"NAME", "PAYLOAD " + unit.String(), "BURN " + unit.String(), "SAVED"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the weights saved in a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileStore(func(s *settings, store profile.Store) error {
				p, err := profile.Get(ctxOf(cmd), store, args[0])
				if err != nil {
					return err
				}
				out := output.New(cmd.OutOrStdout())
				if jsonOutput {
					return out.JSON(p)
				}

				unit := displayUnit(s)
				out.Statusf("📋", "Profile %q, saved %s", p.Name, p.SavedAt.Local().Format(time.RFC822))
				rows := make([][]string, 0, len(p.Weights.Weights))
				for _, id := range p.Weights.StationIDs() {
					rows = append(rows, []string{string(id), formatAmount(p.Weights.Weight(id), unit)})
				}
				out.Table([]string{"STATION", "WEIGHT " + unit.String()}, rows)
				if p.Weights.PlannedFuelBurn > 0 {
					out.Statusf("", "Planned fuel burn: %s %s", formatAmount(p.Weights.PlannedFuelBurn, unit), unit)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newProfileSaveCmd() *cobra.Command {
	var (
		ac   aircraftFlags
		uf   unitFlags
		burn string
	)

	cmd := &cobra.Command{
		Use:   "save <name> station=weight[unit]...",
		Short: "Save a payload under a name",
		Long: `Save a payload under a name, replacing any profile with the same name.

Entries are checked against the selected aircraft's stations.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(ac)
			if err != nil {
				return err
			}
			u, err := s.inputUnits(uf)
			if err != nil {
				return err
			}
			name, err := profile.ValidateName(args[0])
			if err != nil {
				return err
			}
			state, err := payload.Parse(s.aircraft, args[1:], burn, u)
			if err != nil {
				return err
			}

			store, err := profile.Open(s.cfg.Profiles)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Save(ctxOf(cmd), profile.Profile{Name: name, Weights: state}); err != nil {
				return err
			}
			slog.Info("profile_saved",
				slog.String("name", name),
				slog.String("aircraft", s.aircraft.Name),
				slog.Int("stations", len(state.Weights)))

			output.New(cmd.OutOrStdout()).Successf("Saved profile %q (%s %s payload)",
				name, formatAmount(totalWeight(state), u.Input), u.Input)
			return nil
		},
	}

	ac.register(cmd)
	uf.register(cmd)
	cmd.Flags().StringVar(&burn, "burn", "", "Planned fuel burn, e.g. 60 or 10gal")

	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileStore(func(_ *settings, store profile.Store) error {
				if err := store.Delete(ctxOf(cmd), args[0]); err != nil {
					return err
				}
				slog.Info("profile_deleted", slog.String("name", args[0]))
				output.New(cmd.OutOrStdout()).Successf("Deleted profile %q", args[0])
				return nil
			})
		},
	}
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// displayUnit is the configured station unit, falling back to pounds.
func displayUnit(s *settings) units.Unit {
	u, err := units.ParseUnit(s.cfg.Units.Input)
	if err != nil || !u.IsMass() {
		return units.Pounds
	}
	return u
}

func totalWeight(p payload.State) float64 {
	var sum float64
	for _, w := range p.Weights {
		sum += w
	}
	return sum
}

func formatAmount(lbs float64, unit units.Unit) string {
	return fmt.Sprintf("%.1f", units.FromLbs(lbs, unit))
}

// formatTimeAgo formats a time as a human-readable "ago" string.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
