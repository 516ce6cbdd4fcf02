package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/display"
)

func (a *app) calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Interactive calculator that updates as you type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := display.NewCalculator(a.engine(), a.cfg.Unit, nil)
			_, err := tea.NewProgram(calc, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
}
