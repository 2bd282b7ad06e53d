package core

import (
	"fmt"
	"strings"
)

// FilterKind names the single criterion a Filter selects on.
type FilterKind string

const (
	ByID       FilterKind = "id"
	ByCategory FilterKind = "category"
	ByDate     FilterKind = "date"
	ByAmount   FilterKind = "amount"
)

// Filter selects expenses by exactly one exact-match criterion.
type Filter struct {
	Kind     FilterKind
	ID       int64
	Category string
	Date     Date
	Amount   Money
}

func IDFilter(id int64) Filter            { return Filter{Kind: ByID, ID: id} }
func CategoryFilter(category string) Filter { return Filter{Kind: ByCategory, Category: category} }
func DateFilter(d Date) Filter            { return Filter{Kind: ByDate, Date: d} }
func AmountFilter(m Money) Filter         { return Filter{Kind: ByAmount, Amount: m} }

// Validate checks that the selected criterion carries a usable value.
func (f Filter) Validate() error {
	switch f.Kind {
	case ByID:
		if f.ID <= 0 {
			return ErrInvalidID
		}
	case ByCategory:
		if strings.TrimSpace(f.Category) == "" {
			return ErrEmptyCategory
		}
	case ByDate:
		if f.Date.IsEmpty() {
			return ErrInvalidDate
		}
	case ByAmount:
		return f.Amount.Validate()
	default:
		return ErrInvalidFilter
	}
	return nil
}

// Matches reports whether e satisfies the filter.
func (f Filter) Matches(e Expense) bool {
	switch f.Kind {
	case ByID:
		return e.ID == f.ID
	case ByCategory:
		return e.Category == strings.TrimSpace(f.Category)
	case ByDate:
		return e.Date.String() == f.Date.String()
	case ByAmount:
		return e.Amount.Cents == f.Amount.Cents
	}
	return false
}

// String describes the filter for logs and user messages.
func (f Filter) String() string {
	switch f.Kind {
	case ByID:
		return fmt.Sprintf("id=%d", f.ID)
	case ByCategory:
		return fmt.Sprintf("category=%q", strings.TrimSpace(f.Category))
	case ByDate:
		return "date=" + f.Date.String()
	case ByAmount:
		return "amount=" + f.Amount.String()
	}
	return "invalid filter"
}
