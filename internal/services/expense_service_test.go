package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"spese/internal/amqp"
	"spese/internal/core"
	applog "spese/internal/log"
	"spese/internal/memory"
)

type recordingNotifier struct {
	events []*amqp.ExpenseEvent
	err    error
	closed bool
}

func (n *recordingNotifier) PublishExpenseEvent(_ context.Context, ev *amqp.ExpenseEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

func (n *recordingNotifier) Close() error {
	n.closed = true
	return nil
}

func newTestService(t *testing.T, notifier Notifier) (*ExpenseService, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Output: &buf})
	return NewExpenseService(memory.New(), notifier, logger), &buf
}

func mustCreate(t *testing.T, s *ExpenseService, cents int64, category string, date core.Date) int64 {
	t.Helper()
	id, err := s.CreateExpense(context.Background(), core.Expense{
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	return id
}

func TestNewExpenseService(t *testing.T) {
	service := NewExpenseService(memory.New(), nil, nil)

	if service == nil {
		t.Fatal("NewExpenseService should return a non-nil service")
	}
	if service.logger.Component() != applog.ComponentExpense {
		t.Errorf("unexpected logger component %q", service.logger.Component())
	}
}

func TestExpenseService_CreateExpense(t *testing.T) {
	notifier := &recordingNotifier{}
	service, logs := newTestService(t, notifier)

	id := mustCreate(t, service, 1050, " Food ", core.NewDate(2024, 3, 1))

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.Type != amqp.EventExpenseCreated || ev.ID != id {
		t.Errorf("unexpected event %+v", ev)
	}
	if !strings.Contains(logs.String(), "category=Food") {
		t.Errorf("expected normalized category in logs: %q", logs.String())
	}
}

func TestExpenseService_CreateExpenseValidation(t *testing.T) {
	notifier := &recordingNotifier{}
	service, logs := newTestService(t, notifier)

	_, err := service.CreateExpense(context.Background(), core.Expense{
		Amount:   core.Money{Cents: 0},
		Category: "Food",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if !core.IsValidation(err) {
		t.Fatalf("validation error must survive wrapping")
	}
	if len(notifier.events) != 0 {
		t.Errorf("rejected expense must not be announced")
	}
	if !strings.Contains(logs.String(), "error_type=validation_error") {
		t.Errorf("expected validation error type in logs: %q", logs.String())
	}
}

func TestExpenseService_NotifierFailureDoesNotFail(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("connection refused")}
	service, logs := newTestService(t, notifier)

	id := mustCreate(t, service, 100, "Food", core.NewDate(2024, 1, 1))
	if id <= 0 {
		t.Fatalf("expected id, got %d", id)
	}
	if !strings.Contains(logs.String(), "Failed to publish expense event") {
		t.Errorf("expected publish failure to be logged: %q", logs.String())
	}
}

func TestExpenseService_DeleteMatching(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	service, _ := newTestService(t, notifier)

	d := core.NewDate(2024, 3, 1)
	food1 := mustCreate(t, service, 1000, "Food", d)
	mustCreate(t, service, 1000, "Food", d)
	mustCreate(t, service, 2500, "Rent", core.NewDate(2024, 3, 2))
	transport := mustCreate(t, service, 500, "Transport", core.NewDate(2024, 3, 3))
	notifier.events = nil

	tests := []struct {
		name   string
		filter core.Filter
		want   int64
	}{
		{"by id", core.IDFilter(food1), 1},
		{"by missing id", core.IDFilter(9999), 0},
		{"by category", core.CategoryFilter("Food"), 1},
		{"by date", core.DateFilter(core.NewDate(2024, 3, 2)), 1},
		{"by amount", core.AmountFilter(core.Money{Cents: 12345}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := service.DeleteMatching(ctx, tt.filter)
			if err != nil {
				t.Fatalf("DeleteMatching: %v", err)
			}
			if n != tt.want {
				t.Errorf("deleted %d, want %d", n, tt.want)
			}
		})
	}

	remaining, err := service.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != transport {
		t.Fatalf("unexpected remaining expenses: %+v", remaining)
	}

	// Only deletes that removed something are announced.
	if len(notifier.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(notifier.events))
	}
	for _, ev := range notifier.events {
		if ev.Type != amqp.EventExpensesDeleted || ev.Count != 1 {
			t.Errorf("unexpected event %+v", ev)
		}
	}
}

func TestExpenseService_DeleteMatchingInvalidFilter(t *testing.T) {
	service, _ := newTestService(t, nil)

	if _, err := service.DeleteMatching(context.Background(), core.Filter{}); !errors.Is(err, core.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if _, err := service.DeleteMatching(context.Background(), core.CategoryFilter("  ")); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestExpenseService_Overview(t *testing.T) {
	service, _ := newTestService(t, nil)

	mustCreate(t, service, 1050, "Food", core.NewDate(2024, 3, 1))
	mustCreate(t, service, 525, "Transport", core.NewDate(2024, 3, 15))
	mustCreate(t, service, 700, "Food", core.NewDate(2024, 2, 10))

	overview, err := service.Overview(context.Background(), 2024, 3)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.Total.String() != "15.75" {
		t.Errorf("unexpected total %s", overview.Total)
	}
	if len(overview.ByCategory) != 2 || overview.ByCategory[0].Name != "Food" || overview.ByCategory[0].Amount.Cents != 1050 {
		t.Errorf("unexpected breakdown %+v", overview.ByCategory)
	}

	if _, err := service.Overview(context.Background(), 2024, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestExpenseService_FindExpenses(t *testing.T) {
	service, _ := newTestService(t, nil)
	id := mustCreate(t, service, 1050, "Food", core.NewDate(2024, 3, 1))
	mustCreate(t, service, 200, "Rent", core.NewDate(2024, 3, 1))

	found, err := service.FindExpenses(context.Background(), core.CategoryFilter("Food"))
	if err != nil {
		t.Fatalf("FindExpenses: %v", err)
	}
	if len(found) != 1 || found[0].ID != id {
		t.Fatalf("unexpected matches %+v", found)
	}
}

func TestExpenseService_Close(t *testing.T) {
	t.Run("closes notifier", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service, _ := newTestService(t, notifier)

		if err := service.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if !notifier.closed {
			t.Error("notifier should be closed")
		}
	})

	t.Run("nil components", func(t *testing.T) {
		service := &ExpenseService{}

		if err := service.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})
}
