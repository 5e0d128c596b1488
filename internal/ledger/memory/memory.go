// Package memory provides an in-memory ledger backend used by tests
// and the default dev configuration.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"budgetai/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// Append validates and stores the transaction, returning a synthetic
// row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

func (s *Store) ListTransactions(_ context.Context, year int, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.items {
		if tx.CreatedAt.Year() == year && int(tx.CreatedAt.Month()) == month {
			out = append(out, tx)
		}
	}
	sortByTime(out)
	return out, nil
}

func (s *Store) ReadMonthSummary(_ context.Context, year int, month int) (core.MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := core.MonthSummary{Year: year, Month: month}
	byCat := make(map[core.Category]int64)
	for _, tx := range s.items {
		if tx.CreatedAt.Year() != year || int(tx.CreatedAt.Month()) != month {
			continue
		}
		summary.Total.Cents += tx.Amount.Cents
		summary.Count++
		byCat[tx.Category] += tx.Amount.Cents
	}
	for _, c := range core.Categories() {
		if cents, ok := byCat[c]; ok {
			summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
				Category: c,
				Amount:   core.Money{Cents: cents},
			})
		}
	}
	return summary, nil
}

func (s *Store) ReadHistory(_ context.Context) ([]core.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := make([]core.Point, len(s.items))
	for i, tx := range s.items {
		points[i] = core.Point{At: tx.CreatedAt, Amount: tx.Amount}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	return points, nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	sortByTime(out)
	return out, nil
}

func sortByTime(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.Before(txs[j].CreatedAt) })
}
