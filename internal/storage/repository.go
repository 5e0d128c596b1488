// Package storage persists transactions to SQLite. The transactions
// table is append-only for business fields; only the sync bookkeeping
// columns are ever updated.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"budgetai/internal/core"

	_ "modernc.org/sqlite"
)

const (
	syncPending = "pending"
	syncDone    = "synced"
	syncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// StoredTransaction is a transaction row with its database identity and
// sync bookkeeping.
type StoredTransaction struct {
	ID          int64
	Transaction core.Transaction
	Version     int64
	SyncStatus  string
}

// PendingTransaction is the minimal row data used to build sync queue
// messages.
type PendingTransaction struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionWriter.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (amount_cents, category, raw_text, created_at)
		 VALUES (?, ?, ?, ?)`,
		tx.Amount.Cents, string(tx.Category), tx.RawText, tx.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	return strconv.FormatInt(id, 10), nil
}

// GetTransaction retrieves a single transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (StoredTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, category, raw_text, created_at, version, sync_status
		 FROM transactions WHERE id = ?`, id)
	return scanStored(row)
}

// ListTransactions implements ledger.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year int, month int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount_cents, category, raw_text, created_at
		 FROM transactions
		 WHERE CAST(strftime('%Y', created_at) AS INTEGER) = ?
		   AND CAST(strftime('%m', created_at) AS INTEGER) = ?
		 ORDER BY created_at ASC`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("query month transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListAll implements ledger.HistoryLister.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount_cents, category, raw_text, created_at
		 FROM transactions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query all transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ReadMonthSummary implements ledger.SummaryReader.
func (r *SQLiteRepository) ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{Year: year, Month: month}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents), COUNT(*)
		 FROM transactions
		 WHERE CAST(strftime('%Y', created_at) AS INTEGER) = ?
		   AND CAST(strftime('%m', created_at) AS INTEGER) = ?
		 GROUP BY category`,
		year, month)
	if err != nil {
		return summary, fmt.Errorf("query month summary: %w", err)
	}
	defer rows.Close()

	byCat := make(map[core.Category]int64)
	for rows.Next() {
		var cat string
		var cents int64
		var count int
		if err := rows.Scan(&cat, &cents, &count); err != nil {
			return summary, fmt.Errorf("scan summary row: %w", err)
		}
		byCat[core.Category(cat)] = cents
		summary.Total.Cents += cents
		summary.Count += count
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterate summary rows: %w", err)
	}

	// Deterministic bucket order: vocabulary order, then anything the
	// table holds from an older vocabulary.
	for _, c := range core.Categories() {
		if cents, ok := byCat[c]; ok {
			summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
				Category: c,
				Amount:   core.Money{Cents: cents},
			})
			delete(byCat, c)
		}
	}
	for cat, cents := range byCat {
		summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
			Category: cat,
			Amount:   core.Money{Cents: cents},
		})
	}

	return summary, nil
}

// ReadHistory implements ledger.HistoryReader.
func (r *SQLiteRepository) ReadHistory(ctx context.Context) ([]core.Point, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at, amount_cents FROM transactions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []core.Point
	for rows.Next() {
		var at string
		var cents int64
		if err := rows.Scan(&at, &cents); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		ts, err := parseStoredTime(at)
		if err != nil {
			return nil, err
		}
		points = append(points, core.Point{At: ts, Amount: core.Money{Cents: cents}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return points, nil
}

// GetPendingSync returns transactions not yet exported, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM transactions
		 WHERE sync_status = ? ORDER BY created_at ASC LIMIT ?`,
		syncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	defer rows.Close()

	var pending []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		var at string
		if err := rows.Scan(&p.ID, &p.Version, &at); err != nil {
			return nil, fmt.Errorf("scan pending row: %w", err)
		}
		ts, err := parseStoredTime(at)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = ts
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return pending, nil
}

// MarkSynced marks a transaction as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ?`,
		syncDone, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having failed export.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`,
		syncError, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var cents int64
		var cat, raw, at string
		if err := rows.Scan(&cents, &cat, &raw, &at); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		ts, err := parseStoredTime(at)
		if err != nil {
			return nil, err
		}
		out = append(out, core.Transaction{
			Amount:    core.Money{Cents: cents},
			Category:  core.Category(cat),
			RawText:   raw,
			CreatedAt: ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return out, nil
}

func scanStored(row *sql.Row) (StoredTransaction, error) {
	var st StoredTransaction
	var cents int64
	var cat, raw, at string
	if err := row.Scan(&st.ID, &cents, &cat, &raw, &at, &st.Version, &st.SyncStatus); err != nil {
		return st, fmt.Errorf("get transaction by id: %w", err)
	}
	ts, err := parseStoredTime(at)
	if err != nil {
		return st, err
	}
	st.Transaction = core.Transaction{
		Amount:    core.Money{Cents: cents},
		Category:  core.Category(cat),
		RawText:   raw,
		CreatedAt: ts,
	}
	return st, nil
}

func parseStoredTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return ts, nil
}
