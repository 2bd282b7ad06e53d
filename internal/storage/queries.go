package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the SQL statements of the expenses table.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Expense is a raw expenses row.
type Expense struct {
	ID       int64
	Amount   int64
	Category string
	Date     string
}

// CategoryAmount is the (category, amount) projection totals are folded from.
type CategoryAmount struct {
	Category string
	Amount   int64
}

type CreateExpenseParams struct {
	Amount   int64
	Category string
	Date     string
}

const createExpense = `
INSERT INTO expenses (amount, category, date)
VALUES (?, ?, ?)
RETURNING id, amount, category, date`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Amount, arg.Category, arg.Date)
	var i Expense
	err := row.Scan(&i.ID, &i.Amount, &i.Category, &i.Date)
	return i, err
}

const listExpenses = `
SELECT id, amount, category, date FROM expenses
ORDER BY id DESC`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	return q.queryExpenses(ctx, listExpenses)
}

const getExpensesByID = `
SELECT id, amount, category, date FROM expenses
WHERE id = ?
ORDER BY id DESC`

func (q *Queries) GetExpensesByID(ctx context.Context, id int64) ([]Expense, error) {
	return q.queryExpenses(ctx, getExpensesByID, id)
}

const getExpensesByCategory = `
SELECT id, amount, category, date FROM expenses
WHERE category = ?
ORDER BY id DESC`

func (q *Queries) GetExpensesByCategory(ctx context.Context, category string) ([]Expense, error) {
	return q.queryExpenses(ctx, getExpensesByCategory, category)
}

const getExpensesByDate = `
SELECT id, amount, category, date FROM expenses
WHERE date = ?
ORDER BY id DESC`

func (q *Queries) GetExpensesByDate(ctx context.Context, date string) ([]Expense, error) {
	return q.queryExpenses(ctx, getExpensesByDate, date)
}

const getExpensesByAmount = `
SELECT id, amount, category, date FROM expenses
WHERE amount = ?
ORDER BY id DESC`

func (q *Queries) GetExpensesByAmount(ctx context.Context, amount int64) ([]Expense, error) {
	return q.queryExpenses(ctx, getExpensesByAmount, amount)
}

const listAmountsBetween = `
SELECT amount FROM expenses
WHERE date >= ? AND date < ?`

// ListAmountsBetween returns the amounts dated in [from, to).
func (q *Queries) ListAmountsBetween(ctx context.Context, from, to string) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listAmountsBetween, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int64{}
	for rows.Next() {
		var amount int64
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		items = append(items, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCategoryAmounts = `
SELECT category, amount FROM expenses`

func (q *Queries) ListCategoryAmounts(ctx context.Context) ([]CategoryAmount, error) {
	return q.queryCategoryAmounts(ctx, listCategoryAmounts)
}

const listCategoryAmountsBetween = `
SELECT category, amount FROM expenses
WHERE date >= ? AND date < ?`

func (q *Queries) ListCategoryAmountsBetween(ctx context.Context, from, to string) ([]CategoryAmount, error) {
	return q.queryCategoryAmounts(ctx, listCategoryAmountsBetween, from, to)
}

const deleteExpenseByID = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpenseByID(ctx context.Context, id int64) (int64, error) {
	return q.execRows(ctx, deleteExpenseByID, id)
}

const deleteExpensesByCategory = `DELETE FROM expenses WHERE category = ?`

func (q *Queries) DeleteExpensesByCategory(ctx context.Context, category string) (int64, error) {
	return q.execRows(ctx, deleteExpensesByCategory, category)
}

const deleteExpensesByDate = `DELETE FROM expenses WHERE date = ?`

func (q *Queries) DeleteExpensesByDate(ctx context.Context, date string) (int64, error) {
	return q.execRows(ctx, deleteExpensesByDate, date)
}

const deleteExpensesByAmount = `DELETE FROM expenses WHERE amount = ?`

func (q *Queries) DeleteExpensesByAmount(ctx context.Context, amount int64) (int64, error) {
	return q.execRows(ctx, deleteExpensesByAmount, amount)
}

func (q *Queries) queryExpenses(ctx context.Context, query string, args ...any) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) queryCategoryAmounts(ctx context.Context, query string, args ...any) ([]CategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CategoryAmount{}
	for rows.Next() {
		var i CategoryAmount
		if err := rows.Scan(&i.Category, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) execRows(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
