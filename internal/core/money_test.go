package core

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in      string
		out     int64
		wantErr error
	}{
		{"1", 100, nil},
		{"1.0", 100, nil},
		{"1.23", 123, nil},
		{"1,23", 123, nil},
		{"0.01", 1, nil},
		{"1.005", 101, nil}, // half-up rounding
		{"1.004", 100, nil},
		{" 2.50 ", 250, nil},
		{"10.50", 1050, nil},
		{"92233720368547758.07", math.MaxInt64, nil},
		{"-1", 0, ErrInvalidAmount},
		{"0", 0, ErrInvalidAmount},
		{"0.004", 0, ErrInvalidAmount}, // rounds to zero cents
		{"+1", 0, ErrMalformedAmount},
		{"1e3", 0, ErrMalformedAmount},
		{"abc", 0, ErrMalformedAmount},
		{"1.2.3", 0, ErrMalformedAmount},
		{"", 0, ErrMalformedAmount},
		{"92233720368547758.08", 0, ErrAmountTooLarge},
		{"100000000000000000", 0, ErrAmountTooLarge},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.wantErr == nil {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.wantErr, err)
		}
		if !IsValidation(err) {
			t.Fatalf("%q expected validation error, got %T", tc.in, err)
		}
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	m, err := MoneyFromDecimal(decimal.RequireFromString("15.75"))
	if err != nil || m.Cents != 1575 {
		t.Fatalf("expected 1575 cents, got %d (err=%v)", m.Cents, err)
	}
	if _, err := MoneyFromDecimal(decimal.NewFromInt(-5)); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := MoneyFromDecimal(decimal.RequireFromString("1e17")); err != ErrAmountTooLarge {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestMoneyAdd(t *testing.T) {
	sum, err := Money{Cents: 150}.Add(Money{Cents: 275})
	if err != nil || sum.Cents != 425 {
		t.Fatalf("expected 425 cents, got %d (err=%v)", sum.Cents, err)
	}

	big := Money{Cents: 5_000_000_000_000_000_000}
	if _, err := big.Add(big); !errors.Is(err, ErrTotalOverflow) {
		t.Fatalf("expected ErrTotalOverflow, got %v", err)
	}
	if _, err := (Money{Cents: math.MaxInt64}).Add(Money{Cents: 1}); !errors.Is(err, ErrTotalOverflow) {
		t.Fatalf("expected ErrTotalOverflow at MaxInt64+1, got %v", err)
	}
	if sum, err := (Money{Cents: math.MaxInt64 - 1}).Add(Money{Cents: 1}); err != nil || sum.Cents != math.MaxInt64 {
		t.Fatalf("expected MaxInt64, got %d (err=%v)", sum.Cents, err)
	}
}

func TestCategoryTally(t *testing.T) {
	tally := NewCategoryTally()
	for _, row := range []struct {
		category string
		cents    int64
	}{
		{"Movies", 1000}, {"Rent", 5000}, {"Books", 600}, {"Books", 400}, {"Zoo", 1000},
	} {
		if err := tally.Add(row.category, Money{Cents: row.cents}); err != nil {
			t.Fatalf("Add(%q): %v", row.category, err)
		}
	}

	got := tally.Totals()
	want := []string{"Rent", "Books", "Movies", "Zoo"}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %+v", len(want), got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s (%+v)", i, name, got[i].Name, got)
		}
	}

	big := Money{Cents: 5_000_000_000_000_000_000}
	overflow := NewCategoryTally()
	if err := overflow.Add("Yacht", big); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := overflow.Add("Yacht", big); !errors.Is(err, ErrTotalOverflow) {
		t.Fatalf("expected ErrTotalOverflow, got %v", err)
	}
}

func TestSumAmounts(t *testing.T) {
	total, err := SumAmounts([]Money{{Cents: 1000}, {Cents: 575}})
	if err != nil || total.Cents != 1575 {
		t.Fatalf("expected 1575, got %d (err=%v)", total.Cents, err)
	}
	if total, err := SumAmounts(nil); err != nil || !total.IsZero() {
		t.Fatalf("expected zero total, got %d (err=%v)", total.Cents, err)
	}
	big := Money{Cents: 5_000_000_000_000_000_000}
	if _, err := SumAmounts([]Money{big, big}); !errors.Is(err, ErrTotalOverflow) {
		t.Fatalf("expected ErrTotalOverflow, got %v", err)
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		1:      "0.01",
		100:    "1.00",
		1575:   "15.75",
		123456: "1234.56",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).String(); got != want {
			t.Fatalf("Money{%d}.String() = %q, want %q", cents, got, want)
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	m := Money{Cents: 525}
	back, err := MoneyFromDecimal(m.Decimal())
	if err != nil || back != m {
		t.Fatalf("round trip mismatch: %v (err=%v)", back, err)
	}
}
