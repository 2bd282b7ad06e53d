package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spese/internal/cli"
	"spese/internal/core"
)

func newDeleteCmd(a *app) *cobra.Command {
	var (
		id       int64
		category string
		date     string
		amount   string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete expenses by id, category, date or amount",
		Long: `Delete expenses matching exactly one criterion. Matching rows are listed
and a confirmation is asked for unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filterFromFlags(cmd, id, category, date, amount)
			if err != nil {
				return err
			}

			matches, err := a.service.FindExpenses(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				outln(cmd, cli.RenderWarning(fmt.Sprintf("No expenses match %s.", f)))
				return nil
			}

			if !yes {
				outln(cmd, cli.RenderTable(cli.ExpenseTable("To be deleted", matches)))
				if !confirm(cmd, fmt.Sprintf("Delete %d expense(s)? [y/N] ", len(matches))) {
					outln(cmd, cli.RenderInfo("Nothing deleted."))
					return nil
				}
			}

			n, err := a.service.DeleteMatching(cmd.Context(), f)
			if err != nil {
				return err
			}
			outln(cmd, cli.RenderInfo(fmt.Sprintf("Deleted %d expense(s).", n)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "delete the expense with this id")
	cmd.Flags().StringVar(&category, "category", "", "delete every expense in this category")
	cmd.Flags().StringVar(&date, "date", "", "delete every expense on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "delete every expense of exactly this amount")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("id", "category", "date", "amount")
	cmd.MarkFlagsOneRequired("id", "category", "date", "amount")
	return cmd
}

func filterFromFlags(cmd *cobra.Command, id int64, category, date, amount string) (core.Filter, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("id"):
		return core.IDFilter(id), nil
	case flags.Changed("category"):
		return core.CategoryFilter(category), nil
	case flags.Changed("date"):
		d, err := core.ParseDate(date)
		if err != nil {
			return core.Filter{}, err
		}
		return core.DateFilter(d), nil
	case flags.Changed("amount"):
		m, err := core.ParseMoney(amount)
		if err != nil {
			return core.Filter{}, err
		}
		return core.AmountFilter(m), nil
	}
	return core.Filter{}, core.ErrInvalidFilter
}

func confirm(cmd *cobra.Command, prompt string) bool {
	printf(cmd, "%s", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
