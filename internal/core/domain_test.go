package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero is allowed, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{50000, "500"},
		{1250, "12.50"},
		{1, "0.01"},
		{0, "0"},
		{-150, "-1.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Fatalf("%s should be valid", c)
		}
	}
	if Category("Groceries").IsValid() {
		t.Fatalf("labels outside the vocabulary must be invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	now := time.Now()
	good := Transaction{
		Amount:    Money{Cents: 50000},
		Category:  CategoryFood,
		RawText:   "500 rupees for pizza",
		CreatedAt: now,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: -1}, Category: CategoryFood, RawText: "x", CreatedAt: now},
		{Amount: Money{Cents: 1}, Category: "Snacks", RawText: "x", CreatedAt: now},
		{Amount: Money{Cents: 1}, Category: CategoryFood, RawText: "  ", CreatedAt: now},
		{Amount: Money{Cents: 1}, Category: CategoryFood, RawText: "x"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionConfirmation(t *testing.T) {
	tx := Transaction{Amount: Money{Cents: 50000}, Category: CategoryFood}
	if got := tx.Confirmation(); got != "Logged 500 for Food" {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	tx = Transaction{Amount: Money{Cents: 9950}, Category: CategoryTransport}
	if got := tx.Confirmation(); got != "Logged 99.50 for Transport" {
		t.Fatalf("unexpected confirmation: %q", got)
	}
}

func TestCentsFromUnits(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{500, 50000},
		{12.34, 1234},
		{0, 0},
		{-0.75, -75},
	}
	for _, tc := range cases {
		if got := CentsFromUnits(tc.in); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
