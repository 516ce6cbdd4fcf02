package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/units"
)

func (a *app) convertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert a temperature between °F and °C",
		Long: `Convert a temperature. The value is read in the unit opposite to --to.

Examples:
  bulkferm convert 70 --to C
  bulkferm convert 21 --to F`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%q is not a temperature", args[0])
			}

			target := a.cfg.Unit
			if to != "" {
				if target, err = units.ParseUnit(to); err != nil {
					return err
				}
			}

			var out float64
			from := units.Fahrenheit
			if target == units.Fahrenheit {
				from = units.Celsius
				out = units.CelsiusToFahrenheit(v)
			} else {
				out = units.FahrenheitToCelsius(v)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s%s = %s%s\n",
				strconv.FormatFloat(v, 'f', -1, 64), from.Symbol(),
				strconv.FormatFloat(units.RoundTemperature(out), 'f', -1, 64), target.Symbol())
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target unit, F or C (default: the configured unit)")
	return cmd
}
