package cmd

import (
	"github.com/spf13/cobra"

	"spese/internal/cli"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every recorded expense, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, err := a.service.ListExpenses(cmd.Context())
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				outln(cmd, cli.RenderWarning("No expenses found."))
				return nil
			}
			outln(cmd, cli.RenderTable(cli.ExpenseTable("Expenses", expenses)))
			return nil
		},
	}
}
