package core

import (
	"strings"
	"time"
)

// DateLayout is the sortable textual form dates are stored in.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date without time of day, always in UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID       int64 // Assigned by the store, zero before insertion
		Amount   Money
		Category string
		Date     Date
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses YYYY-MM-DD (or YYYY/MM/DD) into a Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, ErrInvalidDate
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero, meaning "not chosen by the caller".
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewExpense normalizes and validates the inputs of a new expense.
// The category is trimmed and an empty date defaults to today.
func NewExpense(amount Money, category string, date Date) (Expense, error) {
	e := Expense{Amount: amount, Category: category, Date: date}
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Normalize trims the category and fills in today's date when none was chosen.
func (e Expense) Normalize() Expense {
	e.Category = strings.TrimSpace(e.Category)
	if e.Date.IsEmpty() {
		e.Date = Today()
	} else {
		e.Date = DateOf(e.Date.Time)
	}
	return e
}

// Validate checks insertion preconditions. Records are never re-validated afterwards.
func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// ValidateYearMonth rejects a month outside 1..12. The year is not constrained.
func ValidateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// MonthRange returns the first day of the month and the first day of the next one.
func MonthRange(year, month int) (Date, Date) {
	start := NewDate(year, month, 1)
	return start, Date{Time: start.AddDate(0, 1, 0)}
}
