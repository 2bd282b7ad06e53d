// Package memory is a process-local expense store with the same semantics
// as the SQLite repository. Nothing survives the process.
package memory

import (
	"context"
	"strings"
	"sync"

	"spese/internal/core"
)

type Store struct {
	mu     sync.Mutex
	lastID int64
	items  []core.Expense // ascending by id
}

func New() *Store {
	return &Store{}
}

// Initialize is a no-op; the store is ready once constructed.
func (s *Store) Initialize(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// AddExpense stores the expense and returns its id. Ids are never reused.
func (s *Store) AddExpense(_ context.Context, e core.Expense) (int64, error) {
	e, err := core.NewExpense(e.Amount, e.Category, e.Date)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	e.ID = s.lastID
	s.items = append(s.items, e)
	return e.ID, nil
}

// ListExpenses returns all expenses, newest first.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(core.Expense) bool { return true }), nil
}

func (s *Store) FindExpenses(_ context.Context, f core.Filter) ([]core.Expense, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(f.Matches), nil
}

func (s *Store) MonthlyTotal(_ context.Context, year int, month int) (core.Money, error) {
	if err := core.ValidateYearMonth(year, month); err != nil {
		return core.Money{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var amounts []core.Money
	for _, e := range s.items {
		if inMonth(e, year, month) {
			amounts = append(amounts, e.Amount)
		}
	}
	total, err := core.SumAmounts(amounts)
	if err != nil {
		return core.Money{}, core.NewStorageError("sum month total", err)
	}
	return total, nil
}

func (s *Store) CategoryTotals(_ context.Context) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumByCategoryLocked(func(core.Expense) bool { return true })
}

func (s *Store) MonthCategoryTotals(_ context.Context, year int, month int) ([]core.CategoryAmount, error) {
	if err := core.ValidateYearMonth(year, month); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumByCategoryLocked(func(e core.Expense) bool { return inMonth(e, year, month) })
}

func (s *Store) DeleteByID(_ context.Context, id int64) (bool, error) {
	return s.deleteWhere(core.IDFilter(id).Matches) > 0, nil
}

func (s *Store) DeleteByCategory(_ context.Context, category string) (int64, error) {
	category = strings.TrimSpace(category)
	return s.deleteWhere(func(e core.Expense) bool { return e.Category == category }), nil
}

func (s *Store) DeleteByDate(_ context.Context, date core.Date) (int64, error) {
	return s.deleteWhere(core.DateFilter(date).Matches), nil
}

func (s *Store) DeleteByAmount(_ context.Context, amount core.Money) (int64, error) {
	return s.deleteWhere(core.AmountFilter(amount).Matches), nil
}

func (s *Store) selectLocked(keep func(core.Expense) bool) []core.Expense {
	out := []core.Expense{}
	for i := len(s.items) - 1; i >= 0; i-- {
		if keep(s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

func (s *Store) deleteWhere(match func(core.Expense) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var n int64
	for _, e := range s.items {
		if match(e) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	s.items = kept
	return n
}

func (s *Store) sumByCategoryLocked(keep func(core.Expense) bool) ([]core.CategoryAmount, error) {
	tally := core.NewCategoryTally()
	for _, e := range s.items {
		if !keep(e) {
			continue
		}
		if err := tally.Add(e.Category, e.Amount); err != nil {
			return nil, core.NewStorageError("sum category totals", err)
		}
	}
	return tally.Totals(), nil
}

func inMonth(e core.Expense, year, month int) bool {
	return e.Date.Year() == year && e.Date.Month() == month
}
