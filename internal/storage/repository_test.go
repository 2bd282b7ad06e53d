package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spese/internal/core"
	"spese/internal/ports"
	"spese/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, err)
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store {
		return newTestRepository(t)
	})
}

func TestSQLiteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expenses.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	first, err := repo.AddExpense(ctx, core.Expense{
		Amount:   core.Money{Cents: 1234},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, "12.34", all[0].Amount.String())

	second, err := reopened.AddExpense(ctx, core.Expense{
		Amount:   core.Money{Cents: 1},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 11),
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestSQLiteRepositoryStorageErrorAfterClose(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Close())

	_, err := repo.ListExpenses(ctx)
	require.Error(t, err)
	assert.True(t, core.IsStorage(err))
	assert.False(t, core.IsValidation(err))

	_, err = repo.DeleteByID(ctx, 1)
	assert.True(t, core.IsStorage(err))
}

func TestSQLiteRepositoryValidationBeforeStorage(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Close())

	// Validation runs before any statement, so a closed database is never reached.
	_, err := repo.AddExpense(context.Background(), core.Expense{Amount: core.Money{Cents: 0}, Category: "Food"})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dsn := DSN(filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, RunMigrations(dsn))
	require.NoError(t, RunMigrations(dsn))
}

func TestDSNEscapesPath(t *testing.T) {
	const pragmas = "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)"
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/expenses.db", "file:/tmp/expenses.db" + pragmas},
		{"data/spese.db", "file:data/spese.db" + pragmas},
		{"/tmp/a?b#c.db", "file:/tmp/a%3Fb%23c.db" + pragmas},
		{"/tmp/100%.db", "file:/tmp/100%25.db" + pragmas},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DSN(tt.path), "DSN(%q)", tt.path)
	}
}

func TestSQLiteRepositoryPathWithURIChars(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "odd?dir#1", "spese?.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	_, err = repo.AddExpense(ctx, core.Expense{
		Amount:   core.Money{Cents: 500},
		Category: "Food",
		Date:     core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	assert.FileExists(t, path)

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()
	all, err := reopened.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Food", all[0].Category)
}
