package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/display"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

func (a *app) estimateCmd() *cobra.Command {
	var (
		dough doughFlags
		start string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate bulk fermentation time",
		Long: `Estimate bulk fermentation time for one dough.

Temperatures outside 66-74°F and starter outside 5-20% are extrapolated
from the nearest measured segment and flagged with a warning.

Examples:
  bulkferm estimate --temp 70 --starter 15
  bulkferm estimate -u C --temp 22 --starter 10 --rise 100
  bulkferm estimate --temp 76 --starter 20 --rye 20 --salt 2.2 --start 08:30
  bulkferm estimate --temp 72 --starter 10 --formula rye`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := dough.inputs(cmd.Context(), a.cfg.Unit, a.formulas)
			if err != nil {
				return err
			}

			var startAt time.Time
			if start != "" {
				if startAt, err = parseStart(start, time.Now()); err != nil {
					return err
				}
			}

			res := a.engine().EstimateInputs(in)
			fmt.Fprint(cmd.OutOrStdout(), display.RenderResult(in, res, startAt, a.cfg.Unit))
			return nil
		},
	}

	dough.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "time bulk started, HH:MM or \"now\", to show the completion time")
	return cmd
}

// parseStart reads "now" or a time of day. A clock time later than now is
// taken to mean the same time yesterday.
func parseStart(s string, now time.Time) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "now") {
		return now, nil
	}
	t, err := units.ParseTimeOfDay(s, now)
	if err != nil {
		return time.Time{}, err
	}
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t, nil
}
