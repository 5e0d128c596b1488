package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryRent      Category = "Rent"
	CategoryOther     Category = "Other"
)

type (
	// Category is one label from the fixed spending vocabulary.
	Category string

	Money struct {
		Cents int64
	}

	// Transaction is an immutable record of one classified expense.
	// RawText keeps the original utterance for audit and debugging.
	Transaction struct {
		Amount    Money
		Category  Category
		RawText   string
		CreatedAt time.Time
	}

	// Point is one (timestamp, amount) sample of the spending history,
	// the shape handed to the trend forecaster.
	Point struct {
		At     time.Time
		Amount Money
	}
)

var (
	ErrNegativeAmount  = errors.New("negative amount")
	ErrUnknownCategory = errors.New("category not in vocabulary")
	ErrEmptyRawText    = errors.New("empty raw text")
	ErrZeroTimestamp   = errors.New("timestamp cannot be zero")
)

// Categories returns the vocabulary in its fixed priority order.
// The order matters: the classifier tests keyword sets in this order,
// and ties in frequency counts break toward the earlier label.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTransport, CategoryRent, CategoryOther}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryRent, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Units returns the amount in whole currency units for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.IsValid() {
		return ErrUnknownCategory
	}
	if len(strings.TrimSpace(t.RawText)) == 0 {
		return ErrEmptyRawText
	}
	if len(t.RawText) > 500 {
		return errors.New("raw text too long (max 500 characters)")
	}
	if t.CreatedAt.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// Confirmation renders the human-readable acknowledgement handed to the
// voice-response collaborator, e.g. "Logged 500 for Food".
func (t Transaction) Confirmation() string {
	return "Logged " + t.Amount.String() + " for " + string(t.Category)
}
