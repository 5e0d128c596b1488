// Package export mirrors recorded transactions out of SQLite into the
// configured export targets (CSV file, Google Sheets). SQLite stays the
// source of truth; exports are best-effort with sync bookkeeping.
package export

import (
	"context"
	"fmt"

	"budgetai/internal/amqp"
	"budgetai/internal/ledger"
	applog "budgetai/internal/log"
	"budgetai/internal/storage"
)

// Target is a named export destination.
type Target struct {
	Name   string
	Writer ledger.TransactionWriter
}

// Worker drives exports, either from AMQP sync messages or from the
// periodic pending scan.
type Worker struct {
	storage   *storage.SQLiteRepository
	targets   []Target
	batchSize int
	logger    *applog.Logger
}

func NewWorker(storage *storage.SQLiteRepository, targets []Target, batchSize int, logger *applog.Logger) *Worker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Worker{
		storage:   storage,
		targets:   targets,
		batchSize: batchSize,
		logger:    logger,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *Worker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	w.logger.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	stored, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportTransaction(ctx, stored); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	return nil
}

// ProcessPending exports any transactions that haven't been exported yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *Worker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		stored, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				w.logger.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportTransaction(ctx, stored); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck exports any pending transactions found at worker startup.
// This recovers from missed AMQP messages or worker downtime.
func (w *Worker) StartupCheck(ctx context.Context) error {
	// Larger batch for the startup pass
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		stored, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to get transaction for startup export",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				w.logger.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportTransaction(ctx, stored); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	w.logger.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *Worker) exportTransaction(ctx context.Context, stored storage.StoredTransaction) error {
	for _, target := range w.targets {
		ref, err := target.Writer.Append(ctx, stored.Transaction)
		if err != nil {
			if markErr := w.storage.MarkSyncError(ctx, stored.ID); markErr != nil {
				w.logger.ErrorContext(ctx, "Failed to mark sync error", "id", stored.ID, "error", markErr)
			}
			return fmt.Errorf("append to %s: %w", target.Name, err)
		}

		w.logger.InfoContext(ctx, "Exported transaction",
			"id", stored.ID,
			"target", target.Name,
			"ref", ref,
			"amount_cents", stored.Transaction.Amount.Cents)
	}

	if err := w.storage.MarkSynced(ctx, stored.ID); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mark as synced", "id", stored.ID, "error", err)
		// Don't return an error here - the export actually worked
	}

	return nil
}
