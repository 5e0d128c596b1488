package predict

import (
	"errors"
	"math"
	"testing"
	"time"

	"budgetai/internal/core"
)

func dailyHistory(start time.Time, amounts ...int64) []core.Point {
	pts := make([]core.Point, len(amounts))
	for i, cents := range amounts {
		pts[i] = core.Point{At: start.AddDate(0, 0, i), Amount: core.Money{Cents: cents}}
	}
	return pts
}

func TestForecastLinearSeries(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// 100, 110, ..., 160 is a perfect 10/day line; next day is 170.
	history := dailyHistory(start, 10000, 11000, 12000, 13000, 14000, 15000, 16000)

	f, err := Forecaster{}.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Next.Cents != 17000 {
		t.Fatalf("expected 17000 cents, got %d", f.Next.Cents)
	}
	if math.Abs(f.Slope-10) > 1e-6 {
		t.Fatalf("expected slope 10/day, got %v", f.Slope)
	}
	if f.Trend != TrendIncreasing {
		t.Fatalf("expected increasing trend, got %s", f.Trend)
	}
	if f.Samples != len(history) {
		t.Fatalf("expected %d samples, got %d", len(history), f.Samples)
	}
}

func TestForecastUnorderedInput(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 10000, 11000, 12000, 13000, 14000, 15000, 16000)
	// Shuffle deterministically: reverse.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	f, err := Forecaster{}.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Next.Cents != 17000 {
		t.Fatalf("expected 17000 cents regardless of input order, got %d", f.Next.Cents)
	}
}

func TestForecastClampsNegative(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// Steeply decreasing: the fitted line goes below zero on the next day.
	history := dailyHistory(start, 60000, 50000, 40000, 30000, 20000, 10000, 0)

	f, err := Forecaster{}.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Next.Cents != 0 {
		t.Fatalf("expected clamp to zero, got %d", f.Next.Cents)
	}
	if f.Trend != TrendDecreasing {
		t.Fatalf("expected decreasing trend, got %s", f.Trend)
	}
}

func TestForecastFlatTrend(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 5000, 5000, 5000, 5000, 5000, 5000, 5000)

	f, err := Forecaster{}.Forecast(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trend != TrendFlat {
		t.Fatalf("expected flat trend, got %s", f.Trend)
	}
	if f.Next.Cents != 5000 {
		t.Fatalf("expected 5000 cents, got %d", f.Next.Cents)
	}
}

func TestForecastInsufficientHistory(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 10000, 11000, 12000)

	if _, err := (Forecaster{}).Forecast(history); !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}

	// A lower threshold accepts the same history.
	if _, err := (Forecaster{MinSamples: 3}).Forecast(history); err != nil {
		t.Fatalf("unexpected error with lowered threshold: %v", err)
	}
}
