package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spese/internal/core"
)

type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SPESE_CONFIG", filepath.Join(dir, "absent.toml"))
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	return &harness{t: t, dbPath: filepath.Join(dir, "expenses.db")}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	out, _, err := h.runApp(stdin, args...)
	return out, err
}

// runApp is run that also hands back the app, so tests can inspect the
// backend it wired.
func (h *harness) runApp(stdin string, args ...string) (string, *app, error) {
	h.t.Helper()
	a := newApp()
	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetIn(strings.NewReader(stdin))
	a.root.SetArgs(append([]string{"--db", h.dbPath}, args...))
	err := a.run()
	return out.String(), a, err
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "add", "--amount", "12.50", "--category", "Food", "--date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense added with ID: 1")

	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "$12.50")
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found.")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add", "--amount=-3", "--category", "Food")
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, "amount must be positive", userMessage(err))

	_, err = h.run("", "add", "--amount", "3", "--category", "   ")
	require.Error(t, err)
	assert.Equal(t, "category must not be empty", userMessage(err))

	_, err = h.run("", "add", "--amount", "abc", "--category", "Food")
	require.Error(t, err)
	assert.Equal(t, "amount is not a valid number", userMessage(err))

	_, err = h.run("", "add", "--amount", "100000000000000000", "--category", "Food")
	require.Error(t, err)
	assert.Equal(t, "amount is too large", userMessage(err))

	_, err = h.run("", "add", "--amount", "0.004", "--category", "Food")
	require.Error(t, err)
	assert.Equal(t, "amount must be positive", userMessage(err))

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found.")
}

func TestMonth(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"--amount", "10.00", "--category", "Food", "--date", "2024-03-01"},
		{"--amount", "5.75", "--category", "Travel", "--date", "2024-03-31"},
		{"--amount", "99", "--category", "Food", "--date", "2024-04-01"},
	} {
		_, err := h.run("", append([]string{"add"}, args...)...)
		require.NoError(t, err)
	}

	out, err := h.run("", "month", "--year", "2024", "--month", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spent: $15.75")

	out, err = h.run("", "month", "--year", "2023", "--month", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "There are no expenses for that month.")

	_, err = h.run("", "month", "--year", "2024", "--month", "13")
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "No expense data available.")

	_, err = h.run("", "add", "--amount", "30", "--category", "Rent", "--date", "2024-01-01")
	require.NoError(t, err)
	_, err = h.run("", "add", "--amount", "10", "--category", "Books", "--date", "2024-01-02")
	require.NoError(t, err)

	out, err = h.run("", "categories")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Rent"), strings.Index(out, "Books"))
	assert.Contains(t, out, "75.0%")
}

func TestDelete(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"--amount", "4.20", "--category", "Coffee", "--date", "2024-05-01"},
		{"--amount", "4.20", "--category", "Snacks", "--date", "2024-05-02"},
		{"--amount", "8", "--category", "Coffee", "--date", "2024-05-03"},
	} {
		_, err := h.run("", append([]string{"add"}, args...)...)
		require.NoError(t, err)
	}

	t.Run("declined prompt keeps rows", func(t *testing.T) {
		out, err := h.run("n\n", "delete", "--category", "Coffee")
		require.NoError(t, err)
		assert.Contains(t, out, "Nothing deleted.")
	})

	t.Run("confirmed prompt deletes", func(t *testing.T) {
		out, err := h.run("y\n", "delete", "--amount", "4.2")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 2 expense(s).")
	})

	t.Run("yes flag skips prompt", func(t *testing.T) {
		out, err := h.run("", "delete", "--id", "3", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 1 expense(s).")
	})

	t.Run("nothing matches", func(t *testing.T) {
		out, err := h.run("", "delete", "--date", "2024-05-01", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, "No expenses match date=2024-05-01.")
	})

	t.Run("two criteria rejected", func(t *testing.T) {
		_, err := h.run("", "delete", "--id", "1", "--category", "Coffee")
		require.Error(t, err)
	})

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found.")
}

func TestAddHelpExplainsRounding(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "add", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "0.004")
	assert.Contains(t, out, "rounds to 0.00")
}

func TestBackendReleasedAfterEveryRun(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		wired   bool
	}{
		{"successful command", []string{"list"}, false, true},
		{"command error", []string{"month", "--year", "2024", "--month", "13"}, true, true},
		// Depending on where cobra checks flag groups the backend may not be wired yet.
		{"flag group error", []string{"delete", "--id", "1", "--category", "Food"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, a, err := h.runApp("", tt.args...)
			if tt.wired {
				require.NotNil(t, a.service, "backend was never wired")
			}
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Nil(t, a.result)
			if a.service == nil {
				return
			}

			_, err = a.service.ListExpenses(ctx)
			require.Error(t, err, "store still open after the run")
			assert.True(t, core.IsStorage(err), "expected StorageError, got %v", err)
		})
	}
}

func TestCategoriesOverflowReported(t *testing.T) {
	h := newHarness(t)

	for _, date := range []string{"2024-03-01", "2024-03-02"} {
		_, err := h.run("", "add", "--amount", "50000000000000000", "--category", "Yacht", "--date", date)
		require.NoError(t, err)
	}

	_, err := h.run("", "categories")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTotalOverflow)
	assert.True(t, core.IsStorage(err))
}
