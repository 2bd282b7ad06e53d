package cmd

import (
	"github.com/spf13/cobra"

	"spese/internal/cli"
	"spese/internal/core"
)

const barWidth = 40

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Totals per category across all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			totals, err := a.service.CategoryTotals(cmd.Context())
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				outln(cmd, cli.RenderWarning("No expense data available."))
				return nil
			}

			amounts := make([]core.Money, len(totals))
			for i, ca := range totals {
				amounts[i] = ca.Amount
			}
			grand, err := core.SumAmounts(amounts)
			if err != nil {
				return err
			}

			outln(cmd, cli.RenderTable(categoryTable("Spending by category", totals, grand)))
			outln(cmd, cli.RenderCategoryBars(totals, barWidth))
			return nil
		},
	}
}
