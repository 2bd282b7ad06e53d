package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"spese/internal/cli"
	"spese/internal/core"
)

func newAddCmd(a *app) *cobra.Command {
	var amount, category, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Long: `Record a new expense. The amount accepts a dot or comma as decimal
separator and is rounded half-up to cents, so an amount below 0.005
(for example 0.004) rounds to 0.00 and is rejected as not positive.
The date defaults to today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			money, err := core.ParseMoney(amount)
			if err != nil {
				return err
			}

			var d core.Date
			if date != "" {
				if d, err = core.ParseDate(date); err != nil {
					return err
				}
			}

			id, err := a.service.CreateExpense(cmd.Context(), core.Expense{
				Amount:   money,
				Category: category,
				Date:     d,
			})
			if err != nil {
				return err
			}

			outln(cmd, cli.RenderInfo(fmt.Sprintf("Expense added with ID: %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount spent, e.g. 12.50")
	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
