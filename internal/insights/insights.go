// Package insights aggregates the recorded history into the figures
// surfaced to the user: total spend, dominant category, per-month
// breakdown, and a saving tip keyed on the dominant category.
package insights

import (
	"sort"
	"time"

	"budgetai/internal/core"
)

// MonthTotal is the spend aggregated for one calendar month.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total core.Money
}

// Analysis summarizes the full transaction history.
type Analysis struct {
	Total       core.Money
	Count       int
	TopCategory core.Category
	Monthly     []MonthTotal
}

// Analyze walks the history once and returns the summary. The second
// return value is false when the history is empty. The top category is
// the most frequent one; frequency ties break toward the earlier label
// in the fixed vocabulary order so the result is deterministic.
func Analyze(history []core.Transaction) (Analysis, bool) {
	if len(history) == 0 {
		return Analysis{}, false
	}

	var total int64
	counts := make(map[core.Category]int)
	monthly := make(map[[2]int]int64)
	for _, tx := range history {
		total += tx.Amount.Cents
		counts[tx.Category]++
		key := [2]int{tx.CreatedAt.Year(), int(tx.CreatedAt.Month())}
		monthly[key] += tx.Amount.Cents
	}

	top := core.CategoryOther
	best := -1
	for _, c := range core.Categories() {
		if counts[c] > best {
			top = c
			best = counts[c]
		}
	}

	months := make([]MonthTotal, 0, len(monthly))
	for key, cents := range monthly {
		months = append(months, MonthTotal{
			Year:  key[0],
			Month: time.Month(key[1]),
			Total: core.Money{Cents: cents},
		})
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year < months[j].Year
		}
		return months[i].Month < months[j].Month
	})

	return Analysis{
		Total:       core.Money{Cents: total},
		Count:       len(history),
		TopCategory: top,
		Monthly:     months,
	}, true
}
