package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"spese/internal/core"
	applog "spese/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable expense store backed by a single SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	dsn     string
	queries *Queries
	logger  *applog.Logger
}

// DSN builds the modernc connection string for dbPath as a file: URI, so
// characters such as '?' and '#' in the path are escaped.
func DSN(dbPath string) string {
	path := (&url.URL{Path: dbPath}).EscapedPath()
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)"
}

// NewSQLiteRepository opens (creating if needed) the database file at dbPath
// and initializes its schema.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One user, one process: keep every statement on the same connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		dsn:     dsn,
		queries: New(db),
		logger:  applog.FromDefault(applog.ComponentStorage),
	}

	if err := repo.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Initialize runs the embedded migrations. Existing data is never touched.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dsn); err != nil {
		return core.NewStorageError("initialize schema", err)
	}
	r.logger.DebugContext(ctx, "Expense schema ready", applog.FieldOperation, applog.OpStartup, "dsn", r.dsn)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AddExpense implements ports.ExpenseWriter
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	e, err := core.NewExpense(e.Amount, e.Category, e.Date)
	if err != nil {
		return 0, err
	}

	expense, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Amount:   e.Amount.Cents,
		Category: e.Category,
		Date:     e.Date.String(),
	})
	if err != nil {
		return 0, core.NewStorageError("create expense", err)
	}

	fields := applog.NewFields().
		WithOperation(applog.OpCreate).
		WithExpense(expense.ID, expense.Amount, expense.Category, expense.Date)
	r.logger.InfoContext(ctx, "Expense saved to SQLite", fields.ToSlice()...)

	return expense.ID, nil
}

// ListExpenses implements ports.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, core.NewStorageError("list expenses", err)
	}
	return toCoreExpenses(rows)
}

// FindExpenses returns the rows a filter selects, newest first.
func (r *SQLiteRepository) FindExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var (
		rows []Expense
		err  error
	)
	switch f.Kind {
	case core.ByID:
		rows, err = r.queries.GetExpensesByID(ctx, f.ID)
	case core.ByCategory:
		rows, err = r.queries.GetExpensesByCategory(ctx, strings.TrimSpace(f.Category))
	case core.ByDate:
		rows, err = r.queries.GetExpensesByDate(ctx, f.Date.String())
	case core.ByAmount:
		rows, err = r.queries.GetExpensesByAmount(ctx, f.Amount.Cents)
	}
	if err != nil {
		return nil, core.NewStorageError(fmt.Sprintf("find expenses by %s", f.Kind), err)
	}
	return toCoreExpenses(rows)
}

// MonthlyTotal implements ports.SummaryReader
func (r *SQLiteRepository) MonthlyTotal(ctx context.Context, year int, month int) (core.Money, error) {
	if err := core.ValidateYearMonth(year, month); err != nil {
		return core.Money{}, err
	}

	from, to := core.MonthRange(year, month)
	rows, err := r.queries.ListAmountsBetween(ctx, from.String(), to.String())
	if err != nil {
		return core.Money{}, core.NewStorageError("get month amounts", err)
	}

	amounts := make([]core.Money, len(rows))
	for i, cents := range rows {
		amounts[i] = core.Money{Cents: cents}
	}
	total, err := core.SumAmounts(amounts)
	if err != nil {
		return core.Money{}, core.NewStorageError("sum month total", err)
	}
	return total, nil
}

// CategoryTotals implements ports.SummaryReader
func (r *SQLiteRepository) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, err := r.queries.ListCategoryAmounts(ctx)
	if err != nil {
		return nil, core.NewStorageError("get category amounts", err)
	}
	return tallyCategories(rows)
}

// MonthCategoryTotals implements ports.SummaryReader
func (r *SQLiteRepository) MonthCategoryTotals(ctx context.Context, year int, month int) ([]core.CategoryAmount, error) {
	if err := core.ValidateYearMonth(year, month); err != nil {
		return nil, err
	}

	from, to := core.MonthRange(year, month)
	rows, err := r.queries.ListCategoryAmountsBetween(ctx, from.String(), to.String())
	if err != nil {
		return nil, core.NewStorageError("get month category amounts", err)
	}
	return tallyCategories(rows)
}

// DeleteByID implements ports.ExpenseDeleter
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteExpenseByID(ctx, id)
	if err != nil {
		return false, core.NewStorageError("delete expense by id", err)
	}
	r.logDeleted(ctx, core.IDFilter(id), n)
	return n > 0, nil
}

// DeleteByCategory implements ports.ExpenseDeleter
func (r *SQLiteRepository) DeleteByCategory(ctx context.Context, category string) (int64, error) {
	n, err := r.queries.DeleteExpensesByCategory(ctx, strings.TrimSpace(category))
	if err != nil {
		return 0, core.NewStorageError("delete expenses by category", err)
	}
	r.logDeleted(ctx, core.CategoryFilter(category), n)
	return n, nil
}

// DeleteByDate implements ports.ExpenseDeleter
func (r *SQLiteRepository) DeleteByDate(ctx context.Context, date core.Date) (int64, error) {
	n, err := r.queries.DeleteExpensesByDate(ctx, date.String())
	if err != nil {
		return 0, core.NewStorageError("delete expenses by date", err)
	}
	r.logDeleted(ctx, core.DateFilter(date), n)
	return n, nil
}

// DeleteByAmount implements ports.ExpenseDeleter. Matching is exact on cents.
func (r *SQLiteRepository) DeleteByAmount(ctx context.Context, amount core.Money) (int64, error) {
	n, err := r.queries.DeleteExpensesByAmount(ctx, amount.Cents)
	if err != nil {
		return 0, core.NewStorageError("delete expenses by amount", err)
	}
	r.logDeleted(ctx, core.AmountFilter(amount), n)
	return n, nil
}

func (r *SQLiteRepository) logDeleted(ctx context.Context, f core.Filter, n int64) {
	fields := applog.NewFields().
		WithOperation(applog.OpDelete).
		WithDeletion(f.String(), n)
	r.logger.InfoContext(ctx, "Expenses deleted from SQLite", fields.ToSlice()...)
}

func toCoreExpenses(rows []Expense) ([]core.Expense, error) {
	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, core.NewStorageError("decode expense date",
				fmt.Errorf("expense %d has date %q: %w", row.ID, row.Date, err))
		}
		expenses[i] = core.Expense{
			ID:       row.ID,
			Amount:   core.Money{Cents: row.Amount},
			Category: row.Category,
			Date:     date,
		}
	}
	return expenses, nil
}

// tallyCategories folds rows with overflow-checked sums, ordered by total
// desc, then name asc.
func tallyCategories(rows []CategoryAmount) ([]core.CategoryAmount, error) {
	tally := core.NewCategoryTally()
	for _, row := range rows {
		if err := tally.Add(row.Category, core.Money{Cents: row.Amount}); err != nil {
			return nil, core.NewStorageError("sum category totals", err)
		}
	}
	return tally.Totals(), nil
}
