package services

import (
	"context"
	"errors"
	"fmt"

	"spese/internal/amqp"
	"spese/internal/core"
	applog "spese/internal/log"
	"spese/internal/ports"
)

// Notifier publishes change events. Failures never fail the store operation.
type Notifier interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// ExpenseService orchestrates expense operations over a store and an optional notifier.
type ExpenseService struct {
	store    ports.Store
	notifier Notifier
	logger   *applog.Logger
}

func NewExpenseService(store ports.Store, notifier Notifier, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		store:    store,
		notifier: notifier,
		logger:   logger.WithComponent(applog.ComponentExpense),
	}
}

// CreateExpense saves an expense and publishes a created event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	e = e.Normalize()
	id, err := s.store.AddExpense(ctx, e)
	if err != nil {
		s.logFailure(ctx, applog.OpCreate, err)
		return 0, fmt.Errorf("save expense: %w", err)
	}

	fields := applog.NewFields().
		WithOperation(applog.OpCreate).
		WithExpense(id, e.Amount.Cents, e.Category, e.Date.String())
	s.logger.InfoContext(ctx, "Expense created", fields.ToSlice()...)

	s.publish(ctx, amqp.NewExpenseCreatedEvent(id))
	return id, nil
}

// ListExpenses returns every expense, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		s.logFailure(ctx, applog.OpList, err)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// FindExpenses previews the rows a filter selects without deleting anything.
func (s *ExpenseService) FindExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	expenses, err := s.store.FindExpenses(ctx, f)
	if err != nil {
		s.logFailure(ctx, applog.OpFind, err)
		return nil, fmt.Errorf("find expenses by %s: %w", f.Kind, err)
	}
	return expenses, nil
}

// MonthlyTotal returns the total spent in year-month.
func (s *ExpenseService) MonthlyTotal(ctx context.Context, year, month int) (core.Money, error) {
	total, err := s.store.MonthlyTotal(ctx, year, month)
	if err != nil {
		s.logFailure(ctx, applog.OpSummary, err)
		return core.Money{}, fmt.Errorf("monthly total: %w", err)
	}
	return total, nil
}

// CategoryTotals returns the all-time per-category totals.
func (s *ExpenseService) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	totals, err := s.store.CategoryTotals(ctx)
	if err != nil {
		s.logFailure(ctx, applog.OpSummary, err)
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return totals, nil
}

// Overview combines the month total with that month's category breakdown.
func (s *ExpenseService) Overview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}

	total, err := s.MonthlyTotal(ctx, year, month)
	if err != nil {
		return overview, err
	}
	overview.Total = total

	byCategory, err := s.store.MonthCategoryTotals(ctx, year, month)
	if err != nil {
		s.logFailure(ctx, applog.OpSummary, err)
		return overview, fmt.Errorf("month category totals: %w", err)
	}
	overview.ByCategory = byCategory

	s.logger.DebugContext(ctx, "Month overview computed",
		applog.NewFields().WithPeriod(year, month).ToSlice()...)
	return overview, nil
}

// DeleteMatching removes every expense the filter selects and returns how many went.
func (s *ExpenseService) DeleteMatching(ctx context.Context, f core.Filter) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	var (
		n   int64
		err error
	)
	switch f.Kind {
	case core.ByID:
		var deleted bool
		deleted, err = s.store.DeleteByID(ctx, f.ID)
		if deleted {
			n = 1
		}
	case core.ByCategory:
		n, err = s.store.DeleteByCategory(ctx, f.Category)
	case core.ByDate:
		n, err = s.store.DeleteByDate(ctx, f.Date)
	case core.ByAmount:
		n, err = s.store.DeleteByAmount(ctx, f.Amount)
	}
	if err != nil {
		s.logFailure(ctx, applog.OpDelete, err)
		return 0, fmt.Errorf("delete expenses by %s: %w", f.Kind, err)
	}

	fields := applog.NewFields().
		WithOperation(applog.OpDelete).
		WithDeletion(f.String(), n)
	s.logger.InfoContext(ctx, "Expenses deleted", fields.ToSlice()...)

	if n > 0 {
		s.publish(ctx, amqp.NewExpensesDeletedEvent(f.String(), n))
	}
	return n, nil
}

func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.notifier == nil {
		s.logger.DebugContext(ctx, "AMQP notifier not configured, skipping event", "type", ev.Type)
		return
	}

	if err := s.notifier.PublishExpenseEvent(ctx, ev); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpNotify).
			WithErrorType(applog.ErrorTypeNetwork).
			WithError(err)
		// Don't fail the request - the store already committed
		s.logger.ErrorContext(ctx, "Failed to publish expense event", fields.ToSlice()...)
	}
}

func (s *ExpenseService) logFailure(ctx context.Context, op string, err error) {
	fields := applog.NewFields().WithOperation(op).WithError(err)
	if core.IsValidation(err) {
		s.logger.WarnContext(ctx, "Expense operation rejected",
			fields.WithErrorType(applog.ErrorTypeValidation).ToSlice()...)
		return
	}
	errorType := applog.ErrorTypeInternal
	if core.IsStorage(err) {
		errorType = applog.ErrorTypeDatabase
	}
	s.logger.ErrorContext(ctx, "Expense operation failed",
		fields.WithErrorType(errorType).ToSlice()...)
}

// Close closes the store and, when it owns a closer, the notifier.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if closer, ok := s.notifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
