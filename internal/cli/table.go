package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/display"
	"github.com/hammamikhairi/bulkferm/internal/domain"
)

func (a *app) tableCmd() *cobra.Command {
	var rise int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the measured fermentation data",
		Long: `Print the 40 measured points the estimates are interpolated from.

Examples:
  bulkferm table
  bulkferm table --rise 100 -u C`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			points := a.table.Points()

			rises := domain.RiseTargets[:]
			if cmd.Flags().Changed("rise") {
				r := domain.RiseTarget(rise)
				if r != domain.Rise75 && r != domain.Rise100 {
					return fmt.Errorf("--rise must be 75 or 100, got %d", rise)
				}
				rises = []domain.RiseTarget{r}
			}

			for i, r := range rises {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprint(cmd.OutOrStdout(), display.RenderTable(points, r, a.cfg.Unit))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rise, "rise", "r", 0, "only show one rise column, 75 or 100")
	return cmd
}
