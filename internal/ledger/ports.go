// Package ledger declares the ports between the tracker core and its
// collaborators: recording transactions, listing them back, and feeding
// the history series to the forecaster.
package ledger

import (
	"context"

	"budgetai/internal/core"
)

type (
	// TransactionWriter appends one transaction to the stored history
	// and returns an opaque reference to the stored record.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	// TransactionLister returns the transactions recorded in a given
	// year and month, oldest first.
	TransactionLister interface {
		ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error)
	}

	// SummaryReader provides the aggregated month view for dashboards.
	SummaryReader interface {
		ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error)
	}

	// HistoryReader supplies the chronological (timestamp, amount)
	// series consumed by the prediction collaborator.
	HistoryReader interface {
		ReadHistory(ctx context.Context) ([]core.Point, error)
	}

	// HistoryLister returns every recorded transaction, oldest first.
	// Used by the insights analysis.
	HistoryLister interface {
		ListAll(ctx context.Context) ([]core.Transaction, error)
	}
)
