package ports

import (
	"context"

	"spese/internal/core"
)

// Ports for expense storage adapters.
type (
	ExpenseWriter interface {
		// AddExpense validates, normalizes and inserts e, returning the assigned id.
		AddExpense(ctx context.Context, e core.Expense) (id int64, err error)
	}

	// ExpenseLister returns stored expenses, most recently created first.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		FindExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error)
	}

	// SummaryReader provides aggregated totals.
	SummaryReader interface {
		// MonthlyTotal returns the sum of amounts dated within year-month, zero when none.
		MonthlyTotal(ctx context.Context, year int, month int) (core.Money, error)
		// CategoryTotals returns per-category sums ordered by total desc, then name asc.
		CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error)
		// MonthCategoryTotals is CategoryTotals restricted to one month.
		MonthCategoryTotals(ctx context.Context, year int, month int) ([]core.CategoryAmount, error)
	}

	// ExpenseDeleter removes expenses by exact-match criteria.
	ExpenseDeleter interface {
		DeleteByID(ctx context.Context, id int64) (bool, error)
		DeleteByCategory(ctx context.Context, category string) (int64, error)
		DeleteByDate(ctx context.Context, date core.Date) (int64, error)
		DeleteByAmount(ctx context.Context, amount core.Money) (int64, error)
	}

	// Store is the full data-access contract of an expense store.
	Store interface {
		ExpenseWriter
		ExpenseLister
		SummaryReader
		ExpenseDeleter

		// Initialize ensures the schema exists. Safe to call repeatedly.
		Initialize(ctx context.Context) error
		Close() error
	}
)
