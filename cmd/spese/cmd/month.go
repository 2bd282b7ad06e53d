package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spese/internal/cli"
	"spese/internal/core"
)

func newMonthCmd(a *app) *cobra.Command {
	now := time.Now()
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Total spent in a calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.service.Overview(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			if ov.Total.IsZero() {
				outln(cmd, cli.RenderWarning("There are no expenses for that month."))
				return nil
			}

			title := fmt.Sprintf("%s %d", time.Month(ov.Month), ov.Year)
			outln(cmd, cli.RenderTitle(title))
			printf(cmd, "Total spent: %s\n\n", cli.FormatMoney(ov.Total))
			outln(cmd, cli.RenderTable(categoryTable("By category", ov.ByCategory, ov.Total)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", now.Year(), "year")
	cmd.Flags().IntVarP(&month, "month", "m", int(now.Month()), "month (1-12)")
	return cmd
}

func categoryTable(title string, totals []core.CategoryAmount, total core.Money) cli.Table {
	t := cli.Table{
		Title:   title,
		Headers: []string{"Category", "Total", "Share"},
	}
	for _, ca := range totals {
		t.Rows = append(t.Rows, []string{
			ca.Name,
			cli.FormatMoney(ca.Amount),
			cli.FormatPercent(ca.Amount, total),
		})
	}
	return t
}
