// Package predict fits a linear trend over the spending history and
// projects the next expected amount.
package predict

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"budgetai/internal/core"
)

// DefaultMinSamples is the smallest history that yields a forecast.
const DefaultMinSamples = 7

// ErrInsufficientHistory is returned when the history has fewer samples
// than the forecaster requires.
var ErrInsufficientHistory = errors.New("insufficient history for forecast")

// Trend describes the direction of the fitted spending line.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendFlat       Trend = "flat"
)

// Forecast is the projected spend for the day after the last recorded
// transaction, plus the fitted trend.
type Forecast struct {
	Next    core.Money
	Slope   float64 // currency units per day
	Trend   Trend
	Samples int
}

// Forecaster fits ordinary least squares over (days since first record,
// amount) pairs. The zero value uses DefaultMinSamples.
type Forecaster struct {
	MinSamples int
}

func (f Forecaster) minSamples() int {
	if f.MinSamples > 0 {
		return f.MinSamples
	}
	return DefaultMinSamples
}

// Forecast regresses amount over time and evaluates the fitted line one
// day past the newest sample. Predictions below zero clamp to zero: a
// declining trend never forecasts negative spending.
func (f Forecaster) Forecast(history []core.Point) (Forecast, error) {
	if len(history) < f.minSamples() {
		return Forecast{}, ErrInsufficientHistory
	}

	points := make([]core.Point, len(history))
	copy(points, history)
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

	origin := points[0].At
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i] = pt.At.Sub(origin).Hours() / 24
		ys[i] = pt.Amount.Units()
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	next := alpha + beta*(xs[len(xs)-1]+1)
	if next < 0 || math.IsNaN(next) {
		next = 0
	}

	trend := TrendFlat
	switch {
	case beta > 1e-9:
		trend = TrendIncreasing
	case beta < -1e-9:
		trend = TrendDecreasing
	}

	return Forecast{
		Next:    core.Money{Cents: core.CentsFromUnits(next)},
		Slope:   beta,
		Trend:   trend,
		Samples: len(points),
	}, nil
}
