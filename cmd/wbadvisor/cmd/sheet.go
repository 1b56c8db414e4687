package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/balance"
	"github.com/Aman-CERP/wbadvisor/internal/output"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/profile"
	"github.com/Aman-CERP/wbadvisor/internal/ui"
)

func newSheetCmd() *cobra.Command {
	var (
		ac          aircraftFlags
		uf          unitFlags
		profileName string
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Interactive load sheet",
		Long: `Open an interactive load sheet. The report is recomputed on every
keystroke.

Keys:
  tab / shift+tab   move between fields
  ctrl+u            switch entries between lb and kg
  ctrl+s            save the payload as a profile
  ctrl+l            load the next saved profile
  esc / ctrl+c      quit and print the final report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := ctxOf(cmd)

			s, err := loadSettings(ac)
			if err != nil {
				return err
			}
			u, err := s.inputUnits(uf)
			if err != nil {
				return err
			}
			calc, err := balance.NewCalculator(s.aircraft)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())

			// The sheet still works without saved profiles.
			var store profile.Store
			if st, err := profile.Open(s.cfg.Profiles); err != nil {
				slog.Warn("profile_store_unavailable", slog.String("error", err.Error()))
				out.Warningf("Profiles unavailable: %v", err)
			} else {
				store = st
				defer func() { _ = store.Close() }()
			}

			initial := payload.New()
			if profileName != "" && store != nil {
				p, err := profile.Get(ctx, store, profileName)
				if err != nil {
					return err
				}
				initial = p.Weights
			}

			uiCfg := ui.NewConfig(cmd.OutOrStdout(), ui.WithUnit(u.Input))
			if noColor {
				uiCfg.NoColor = true
			}

			sheet := ui.NewLoadSheet(ctx, balance.NewCache(calc, s.cfg.Cache.Size), ui.SheetOptions{
				Store:   store,
				Unit:    uiCfg.Unit,
				NoColor: uiCfg.NoColor,
				Initial: initial,
			})
			if err := ui.RunLoadSheet(ctx, sheet, cmd.OutOrStdout()); err != nil {
				return err
			}

			out.Text(ui.RenderReport(sheet.Report(), uiCfg.Styles(), sheet.Unit()))
			return nil
		},
	}

	ac.register(cmd)
	uf.register(cmd)
	cmd.Flags().StringVar(&profileName, "profile", "", "Start from a saved profile")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
