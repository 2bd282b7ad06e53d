// Package storetest holds the behavioural contract every ports.Store
// implementation must satisfy. Implementations call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"spese/internal/core"
	"spese/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty, initialized store. The suite closes it.
type Factory func(t *testing.T) ports.Store

// Run executes the whole contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(*testing.T, ports.Store)
	}{
		{"AddExpenseValidation", testAddExpenseValidation},
		{"IDsStrictlyIncrease", testIDsStrictlyIncrease},
		{"IDsNeverReused", testIDsNeverReused},
		{"ListOrder", testListOrder},
		{"ListEmpty", testListEmpty},
		{"RoundTrip", testRoundTrip},
		{"DefaultDate", testDefaultDate},
		{"MonthlyTotalEmpty", testMonthlyTotalEmpty},
		{"MonthlyTotalAggregation", testMonthlyTotalAggregation},
		{"MonthlyTotalInvalidMonth", testMonthlyTotalInvalidMonth},
		{"LargeAmountsSumExactly", testLargeAmountsSumExactly},
		{"TotalsOverflow", testTotalsOverflow},
		{"CategoryTotalsOrdering", testCategoryTotalsOrdering},
		{"CategoryTotalsTieBreak", testCategoryTotalsTieBreak},
		{"MonthCategoryTotals", testMonthCategoryTotals},
		{"DeleteByID", testDeleteByID},
		{"DeleteByCategory", testDeleteByCategory},
		{"DeleteByDate", testDeleteByDate},
		{"DeleteByAmount", testDeleteByAmount},
		{"FindExpenses", testFindExpenses},
		{"InitializeIdempotent", testInitializeIdempotent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func expense(cents int64, category string, date core.Date) core.Expense {
	return core.Expense{Amount: core.Money{Cents: cents}, Category: category, Date: date}
}

func mustAdd(t *testing.T, s ports.Store, e core.Expense) int64 {
	t.Helper()
	id, err := s.AddExpense(context.Background(), e)
	require.NoError(t, err)
	return id
}

func ids(expenses []core.Expense) []int64 {
	out := make([]int64, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func testAddExpenseValidation(t *testing.T, s ports.Store) {
	ctx := context.Background()
	d := core.NewDate(2024, 1, 15)

	bads := []struct {
		e    core.Expense
		want error
	}{
		{expense(0, "Food", d), core.ErrInvalidAmount},
		{expense(-500, "Food", d), core.ErrInvalidAmount},
		{expense(1000, "", d), core.ErrEmptyCategory},
		{expense(1000, "   ", d), core.ErrEmptyCategory},
	}
	for _, bad := range bads {
		_, err := s.AddExpense(ctx, bad.e)
		require.Error(t, err)
		assert.True(t, errors.Is(err, bad.want), "got %v, want %v", err, bad.want)
		assert.True(t, core.IsValidation(err))
	}

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected inserts must leave the store unchanged")

	id := mustAdd(t, s, expense(1000, "Food", d))
	assert.Positive(t, id)
}

func testIDsStrictlyIncrease(t *testing.T, s ports.Store) {
	d := core.NewDate(2024, 1, 15)
	var last int64
	for i := 0; i < 5; i++ {
		id := mustAdd(t, s, expense(100, "Food", d))
		assert.Greater(t, id, last)
		last = id
	}
}

func testIDsNeverReused(t *testing.T, s ports.Store) {
	ctx := context.Background()
	d := core.NewDate(2024, 1, 15)

	mustAdd(t, s, expense(100, "Food", d))
	top := mustAdd(t, s, expense(200, "Food", d))

	deleted, err := s.DeleteByID(ctx, top)
	require.NoError(t, err)
	require.True(t, deleted)

	next := mustAdd(t, s, expense(300, "Food", d))
	assert.Greater(t, next, top)
}

func testListOrder(t *testing.T, s ports.Store) {
	d := core.NewDate(2024, 1, 15)
	first := mustAdd(t, s, expense(100, "A", d))
	second := mustAdd(t, s, expense(200, "B", d))
	third := mustAdd(t, s, expense(300, "C", d))

	all, err := s.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{third, second, first}, ids(all))
}

func testListEmpty(t *testing.T, s ports.Store) {
	all, err := s.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testRoundTrip(t *testing.T, s ports.Store) {
	id := mustAdd(t, s, expense(1050, "  Groceries \t", core.NewDate(2024, 2, 29)))

	all, err := s.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(1050), got.Amount.Cents)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, "2024-02-29", got.Date.String())
}

func testDefaultDate(t *testing.T, s ports.Store) {
	mustAdd(t, s, expense(100, "Food", core.Date{}))

	all, err := s.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, core.Today().String(), all[0].Date.String())
}

func testMonthlyTotalEmpty(t *testing.T, s ports.Store) {
	mustAdd(t, s, expense(999, "Food", core.NewDate(2030, 2, 1)))

	total, err := s.MonthlyTotal(context.Background(), 2030, 1)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func testMonthlyTotalAggregation(t *testing.T, s ports.Store) {
	ctx := context.Background()
	mustAdd(t, s, expense(1050, "Food", core.NewDate(2024, 3, 1)))
	mustAdd(t, s, expense(525, "Transport", core.NewDate(2024, 3, 31)))
	mustAdd(t, s, expense(700, "Food", core.NewDate(2024, 2, 29)))
	mustAdd(t, s, expense(1, "Food", core.NewDate(2023, 3, 15)))

	march, err := s.MonthlyTotal(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "15.75", march.String())

	feb, err := s.MonthlyTotal(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(700), feb.Cents)
}

func testMonthlyTotalInvalidMonth(t *testing.T, s ports.Store) {
	for _, month := range []int{0, 13} {
		_, err := s.MonthlyTotal(context.Background(), 2024, month)
		assert.ErrorIs(t, err, core.ErrInvalidMonth)
	}
}

func testCategoryTotalsOrdering(t *testing.T, s ports.Store) {
	d := core.NewDate(2024, 1, 15)
	mustAdd(t, s, expense(1000, "Food", d))
	mustAdd(t, s, expense(2000, "Food", d))
	mustAdd(t, s, expense(500, "Transport", d))

	totals, err := s.CategoryTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Food", Amount: core.Money{Cents: 3000}},
		{Name: "Transport", Amount: core.Money{Cents: 500}},
	}, totals)
}

func testCategoryTotalsTieBreak(t *testing.T, s ports.Store) {
	d := core.NewDate(2024, 1, 15)
	mustAdd(t, s, expense(500, "Zoo", d))
	mustAdd(t, s, expense(500, "Books", d))
	mustAdd(t, s, expense(900, "Rent", d))
	mustAdd(t, s, expense(500, "Movies", d))

	totals, err := s.CategoryTotals(context.Background())
	require.NoError(t, err)

	names := make([]string, len(totals))
	for i, ct := range totals {
		names[i] = ct.Name
	}
	assert.Equal(t, []string{"Rent", "Books", "Movies", "Zoo"}, names)
}

func testMonthCategoryTotals(t *testing.T, s ports.Store) {
	mustAdd(t, s, expense(1000, "Food", core.NewDate(2024, 3, 2)))
	mustAdd(t, s, expense(400, "Transport", core.NewDate(2024, 3, 3)))
	mustAdd(t, s, expense(9000, "Transport", core.NewDate(2024, 4, 1)))

	totals, err := s.MonthCategoryTotals(context.Background(), 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Food", Amount: core.Money{Cents: 1000}},
		{Name: "Transport", Amount: core.Money{Cents: 400}},
	}, totals)

	empty, err := s.MonthCategoryTotals(context.Background(), 2024, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testDeleteByID(t *testing.T, s ports.Store) {
	ctx := context.Background()

	deleted, err := s.DeleteByID(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, deleted)

	keep := mustAdd(t, s, expense(100, "Food", core.NewDate(2024, 1, 1)))
	gone := mustAdd(t, s, expense(200, "Food", core.NewDate(2024, 1, 1)))

	deleted, err = s.DeleteByID(ctx, gone)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{keep}, ids(all))

	deleted, err = s.DeleteByID(ctx, gone)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testDeleteByCategory(t *testing.T, s ports.Store) {
	ctx := context.Background()
	d := core.NewDate(2024, 1, 1)
	for i := 0; i < 3; i++ {
		mustAdd(t, s, expense(100, "Food", d))
	}
	transport := mustAdd(t, s, expense(100, "Transport", d))

	n, err := s.DeleteByCategory(ctx, " Food ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{transport}, ids(all))

	n, err = s.DeleteByCategory(ctx, "Food")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testDeleteByDate(t *testing.T, s ports.Store) {
	ctx := context.Background()
	mustAdd(t, s, expense(100, "Food", core.NewDate(2024, 5, 1)))
	mustAdd(t, s, expense(200, "Rent", core.NewDate(2024, 5, 1)))
	other := mustAdd(t, s, expense(300, "Food", core.NewDate(2024, 5, 2)))

	n, err := s.DeleteByDate(ctx, core.NewDate(2024, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{other}, ids(all))
}

func testDeleteByAmount(t *testing.T, s ports.Store) {
	ctx := context.Background()
	d := core.NewDate(2024, 5, 1)
	mustAdd(t, s, expense(1050, "Food", d))
	mustAdd(t, s, expense(1050, "Rent", d))
	near := mustAdd(t, s, expense(1051, "Food", d))

	amount, err := core.ParseMoney("10.50")
	require.NoError(t, err)

	n, err := s.DeleteByAmount(ctx, amount)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{near}, ids(all))
}

func testFindExpenses(t *testing.T, s ports.Store) {
	ctx := context.Background()
	a := mustAdd(t, s, expense(1050, "Food", core.NewDate(2024, 5, 1)))
	b := mustAdd(t, s, expense(200, "Food", core.NewDate(2024, 5, 2)))
	c := mustAdd(t, s, expense(1050, "Rent", core.NewDate(2024, 5, 2)))

	cases := []struct {
		f    core.Filter
		want []int64
	}{
		{core.IDFilter(b), []int64{b}},
		{core.IDFilter(9999), []int64{}},
		{core.CategoryFilter(" Food"), []int64{b, a}},
		{core.DateFilter(core.NewDate(2024, 5, 2)), []int64{c, b}},
		{core.AmountFilter(core.Money{Cents: 1050}), []int64{c, a}},
	}
	for _, tc := range cases {
		got, err := s.FindExpenses(ctx, tc.f)
		require.NoError(t, err, tc.f.String())
		assert.Equal(t, tc.want, ids(got), tc.f.String())
	}

	_, err := s.FindExpenses(ctx, core.Filter{})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "finding must not delete")
}

func testInitializeIdempotent(t *testing.T, s ports.Store) {
	ctx := context.Background()
	id := mustAdd(t, s, expense(100, "Food", core.NewDate(2024, 1, 1)))

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(all))
}

func testLargeAmountsSumExactly(t *testing.T, s ports.Store) {
	ctx := context.Background()
	// 4e16 dollars each: their sum needs more than float64 precision.
	mustAdd(t, s, expense(4_000_000_000_000_000_001, "Yacht", core.NewDate(2024, 3, 1)))
	mustAdd(t, s, expense(4_000_000_000_000_000_002, "Yacht", core.NewDate(2024, 3, 2)))

	total, err := s.MonthlyTotal(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8_000_000_000_000_000_003), total.Cents)

	totals, err := s.CategoryTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(8_000_000_000_000_000_003), totals[0].Amount.Cents)
}

func testTotalsOverflow(t *testing.T, s ports.Store) {
	ctx := context.Background()
	huge := int64(5_000_000_000_000_000_000) // 5e16 dollars
	mustAdd(t, s, expense(huge, "Yacht", core.NewDate(2024, 3, 1)))
	mustAdd(t, s, expense(huge, "Yacht", core.NewDate(2024, 3, 2)))
	mustAdd(t, s, expense(100, "Food", core.NewDate(2024, 4, 1)))

	_, err := s.MonthlyTotal(ctx, 2024, 3)
	require.Error(t, err)
	assert.True(t, core.IsStorage(err), "expected StorageError, got %T", err)
	assert.ErrorIs(t, err, core.ErrTotalOverflow)

	_, err = s.CategoryTotals(ctx)
	require.Error(t, err)
	assert.True(t, core.IsStorage(err), "expected StorageError, got %T", err)
	assert.ErrorIs(t, err, core.ErrTotalOverflow)

	_, err = s.MonthCategoryTotals(ctx, 2024, 3)
	assert.ErrorIs(t, err, core.ErrTotalOverflow)

	// Other months and the rows themselves are unaffected.
	total, err := s.MonthlyTotal(ctx, 2024, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total.Cents)

	all, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
