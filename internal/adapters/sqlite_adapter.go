// Package adapters bridges the SQLite repository and transaction
// service to the ledger interfaces the upper layers consume.
package adapters

import (
	"context"

	"budgetai/internal/core"
	"budgetai/internal/services"
	"budgetai/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and TransactionService to the
// ledger interfaces. Writes go through the service so the AMQP sync
// message is published; reads hit the repository directly.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements ledger.TransactionWriter.
func (a *SQLiteAdapter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.Record(ctx, tx)
}

// ListTransactions implements ledger.TransactionLister.
func (a *SQLiteAdapter) ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx, year, month)
}

// ReadMonthSummary implements ledger.SummaryReader.
func (a *SQLiteAdapter) ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error) {
	return a.storage.ReadMonthSummary(ctx, year, month)
}

// ReadHistory implements ledger.HistoryReader.
func (a *SQLiteAdapter) ReadHistory(ctx context.Context) ([]core.Point, error) {
	return a.storage.ReadHistory(ctx)
}

// ListAll implements ledger.HistoryLister.
func (a *SQLiteAdapter) ListAll(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListAll(ctx)
}
