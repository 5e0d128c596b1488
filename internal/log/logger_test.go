package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestLoggerTagsComponent(t *testing.T) {
	logger, buf := newBufferLogger("worker")

	logger.Info("Processing pending transactions", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Fatalf("expected component tag in output, got %q", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Fatalf("expected caller attributes preserved, got %q", out)
	}
}

func TestLoggerContextVariantsTagComponent(t *testing.T) {
	logger, buf := newBufferLogger("export")

	ctx := context.Background()
	logger.InfoContext(ctx, "Exported transaction", "target", "csv")
	logger.ErrorContext(ctx, "Failed to mark as synced", "id", "tx-1")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, "component=export") {
			t.Fatalf("expected every record tagged, got %q", line)
		}
	}
}

func TestWithComponentOverrides(t *testing.T) {
	logger, buf := newBufferLogger("server")

	logger.WithComponent("backend").Info("Creating SQLite backend")

	out := buf.String()
	if !strings.Contains(out, "component=backend") {
		t.Fatalf("expected derived component tag, got %q", out)
	}
	if got := logger.Component(); got != "server" {
		t.Fatalf("parent logger component changed: %q", got)
	}
}

func TestWithKeepsComponent(t *testing.T) {
	logger, buf := newBufferLogger("cli")

	logger.With("request_id", "abc").Warn("Input error")

	out := buf.String()
	if !strings.Contains(out, "component=cli") {
		t.Fatalf("expected component tag after With, got %q", out)
	}
	if !strings.Contains(out, "request_id=abc") {
		t.Fatalf("expected bound attribute, got %q", out)
	}
}
