package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

func (a *app) formulasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formulas [search]",
		Short: "List named dough formulas",
		Long: `List the dough formulas accepted by --formula, optionally filtered by a
search term matched against names, descriptions and tags.

Examples:
  bulkferm formulas
  bulkferm formulas rye`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []*domain.Formula
				err  error
			)
			if len(args) == 1 {
				list, err = a.formulas.Search(cmd.Context(), args[0])
			} else {
				list, err = a.formulas.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list formulas: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No formulas found.")
				return nil
			}

			for _, f := range list {
				fmt.Fprintf(out, "- %s [%s]\n", f.Name, f.ID)
				fmt.Fprintf(out, "  %s\n", f.Description)
				fmt.Fprintf(out, "  whole wheat %g%%, rye %g%%, protein %g%%, salt %g%%\n",
					f.FlourMix.WholeWheat, f.FlourMix.Rye, f.FlourMix.ProteinContent, f.Salt)
				if a.verbose && len(f.Tags) > 0 {
					fmt.Fprintf(out, "  tags: %s\n", strings.Join(f.Tags, ", "))
				}
			}
			return nil
		},
	}
}
