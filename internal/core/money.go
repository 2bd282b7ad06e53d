// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseMoney converts a decimal string to Money with half-up rounding to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. A plus
// sign or an exponent is malformed. Negative values and values that round to
// zero cents (0.004) fail as non-positive.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12,34")  -> 1234 cents
//	ParseMoney("12.345") -> 1235 cents (half-up)
//	ParseMoney("12.344") -> 1234 cents
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrMalformedAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "+eE") {
		return Money{}, ErrMalformedAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrMalformedAmount
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal rounds d half away from zero to whole cents.
// Results that are not positive after rounding are rejected, and so are
// values past the int64 cents range.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	if !cents.BigInt().IsInt64() {
		return Money{}, ErrAmountTooLarge
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in major currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimals, e.g. "15.75".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns the sum of m and o, or ErrTotalOverflow when it leaves the
// int64 cents range.
func (m Money) Add(o Money) (Money, error) {
	if (o.Cents > 0 && m.Cents > math.MaxInt64-o.Cents) ||
		(o.Cents < 0 && m.Cents < math.MinInt64-o.Cents) {
		return Money{}, ErrTotalOverflow
	}
	return Money{Cents: m.Cents + o.Cents}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}
