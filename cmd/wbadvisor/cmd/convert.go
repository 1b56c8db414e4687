package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wbadvisor/internal/output"
	"github.com/Aman-CERP/wbadvisor/internal/payload"
	"github.com/Aman-CERP/wbadvisor/internal/units"
)

func newConvertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <amount>[unit] [unit]",
		Short: "Convert between lb, kg and gallons of fuel",
		Long: `Convert an amount between pounds, kilograms and US gallons of fuel.

Kilograms convert at 2.20462 lb/kg and fuel at 6 lb/gal. The result is not
rounded beyond display precision.`,
		Example: `  wbadvisor convert 80kg
  wbadvisor convert 50 gal --to kg
  wbadvisor convert 300 lb --to gal`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, from, err := payload.ParseAmount(args[0], units.Pounds)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				if from, err = units.ParseUnit(args[1]); err != nil {
					return err
				}
			}
			target, err := units.ParseUnit(to)
			if err != nil {
				return err
			}

			result := units.Convert(amount, from, target)
			output.New(cmd.OutOrStdout()).Statusf("⚖", "%s %s = %s %s",
				formatNumber(amount), from, formatNumber(result), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "lb", "Target unit: lb, kg or gal")

	return cmd
}

// formatNumber prints up to four decimals without trailing zeros.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
