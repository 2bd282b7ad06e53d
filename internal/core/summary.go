package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// SumAmounts adds amounts with overflow checking.
func SumAmounts(amounts []Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// CategoryTally accumulates per-category totals. The zero value is not usable;
// call NewCategoryTally.
type CategoryTally struct {
	sums map[string]Money
}

func NewCategoryTally() *CategoryTally {
	return &CategoryTally{sums: map[string]Money{}}
}

// Add adds amount to category's running total.
func (t *CategoryTally) Add(category string, amount Money) error {
	sum, err := t.sums[category].Add(amount)
	if err != nil {
		return err
	}
	t.sums[category] = sum
	return nil
}

// Totals returns the tallied categories ordered by total desc, then name asc.
func (t *CategoryTally) Totals() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(t.sums))
	for name, sum := range t.sums {
		out = append(out, CategoryAmount{Name: name, Amount: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
