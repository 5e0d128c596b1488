package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"budgetai/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func tx(cents int64, cat core.Category, raw string, at time.Time) core.Transaction {
	return core.Transaction{
		Amount:    core.Money{Cents: cents},
		Category:  cat,
		RawText:   raw,
		CreatedAt: at,
	}
}

func TestAppendAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	ref, err := repo.Append(ctx, tx(50000, core.CategoryFood, "500 rupees for pizza", at))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		t.Fatalf("ref %q is not numeric: %v", ref, err)
	}

	stored, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if stored.Transaction.Amount.Cents != 50000 {
		t.Errorf("amount = %d, want 50000", stored.Transaction.Amount.Cents)
	}
	if stored.Transaction.Category != core.CategoryFood {
		t.Errorf("category = %q, want Food", stored.Transaction.Category)
	}
	if !stored.Transaction.CreatedAt.Equal(at) {
		t.Errorf("created_at = %v, want %v", stored.Transaction.CreatedAt, at)
	}
	if stored.SyncStatus != syncPending {
		t.Errorf("sync_status = %q, want pending", stored.SyncStatus)
	}
	if stored.Version != 1 {
		t.Errorf("version = %d, want 1", stored.Version)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	bad := tx(-100, core.CategoryFood, "refund", time.Now())
	if _, err := repo.Append(context.Background(), bad); err == nil {
		t.Error("Append() should reject a negative amount")
	}
}

func TestMonthFiltering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	june := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	seeds := []core.Transaction{
		tx(50000, core.CategoryFood, "pizza 500", june),
		tx(12000, core.CategoryTransport, "uber 120", june.AddDate(0, 0, 1)),
		tx(1500000, core.CategoryRent, "rent 15000", july),
	}
	for _, s := range seeds {
		if _, err := repo.Append(ctx, s); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := repo.ListTransactions(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("June transactions = %d, want 2", len(got))
	}
	if !got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("transactions should be ordered oldest first")
	}

	summary, err := repo.ReadMonthSummary(ctx, 2025, 6)
	if err != nil {
		t.Fatalf("ReadMonthSummary() error = %v", err)
	}
	if summary.Total.Cents != 62000 || summary.Count != 2 {
		t.Errorf("summary = total %d count %d, want 62000/2", summary.Total.Cents, summary.Count)
	}
	if len(summary.ByCategory) != 2 {
		t.Fatalf("buckets = %d, want 2", len(summary.ByCategory))
	}
	// Vocabulary order: Food before Transport.
	if summary.ByCategory[0].Category != core.CategoryFood {
		t.Errorf("first bucket = %q, want Food", summary.ByCategory[0].Category)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAll() = %d rows, want 3", len(all))
	}

	history, err := repo.ReadHistory(ctx)
	if err != nil {
		t.Fatalf("ReadHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Errorf("ReadHistory() = %d points, want 3", len(history))
	}
}

func TestSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		ref, err := repo.Append(ctx, tx(1000, core.CategoryOther, "misc 10", base.AddDate(0, 0, i)))
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		id, _ := strconv.ParseInt(ref, 10, 64)
		ids = append(ids, id)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}
	if pending[0].ID != ids[0] {
		t.Error("pending rows should be ordered oldest first")
	}

	if err := repo.MarkSynced(ctx, ids[0]); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}
	if err := repo.MarkSyncError(ctx, ids[1]); err != nil {
		t.Fatalf("MarkSyncError() error = %v", err)
	}

	pending, err = repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Fatalf("pending after marks = %v, want just %d", pending, ids[2])
	}

	synced, err := repo.GetTransaction(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if synced.SyncStatus != syncDone {
		t.Errorf("sync_status = %q, want synced", synced.SyncStatus)
	}

	failed, err := repo.GetTransaction(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if failed.SyncStatus != syncError {
		t.Errorf("sync_status = %q, want error", failed.SyncStatus)
	}

	// Honors the limit.
	limited, err := repo.GetPendingSync(ctx, 0)
	if err != nil {
		t.Fatalf("GetPendingSync(limit=0) error = %v", err)
	}
	if len(limited) != 0 {
		t.Errorf("limit 0 returned %d rows", len(limited))
	}
}
