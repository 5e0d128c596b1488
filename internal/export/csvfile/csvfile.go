// Package csvfile appends exported transactions to a local CSV file.
// The file is an append-only mirror of the SQLite ledger, handy for
// spreadsheet imports and offline inspection.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"budgetai/internal/core"
	"budgetai/internal/ledger"

	"github.com/google/uuid"
)

var header = []string{"ref", "date", "amount", "category", "raw_text"}

type Writer struct {
	mu   sync.Mutex
	path string
}

var _ ledger.TransactionWriter = (*Writer)(nil)

func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Writer{path: path}, nil
}

// Append implements ledger.TransactionWriter. Each call writes one row
// and returns a generated reference for it. The header is written when
// the file is created.
func (w *Writer) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	writeHeader := false
	if info, err := os.Stat(w.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		writeHeader = true
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if writeHeader {
		if err := cw.Write(header); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	ref := uuid.NewString()
	row := []string{
		ref,
		tx.CreatedAt.UTC().Format(time.RFC3339),
		tx.Amount.String(),
		string(tx.Category),
		tx.RawText,
	}
	if err := cw.Write(row); err != nil {
		return "", fmt.Errorf("write row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}

	return ref, nil
}
