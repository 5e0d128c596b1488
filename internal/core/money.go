// Package core holds the domain types shared by every layer: money,
// categories, transactions, and the aggregate summary values.
package core

import (
	"fmt"
	"strconv"
)

// String formats the amount without a currency marker. Whole amounts
// drop the fraction ("500"), fractional ones keep two digits ("12.50").
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	var s string
	if cents%100 == 0 {
		s = strconv.FormatInt(cents/100, 10)
	} else {
		s = strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	}
	if neg {
		return "-" + s
	}
	return s
}

// CentsFromUnits converts a float amount to cents with half-up rounding.
// Intended for boundary code (forecast output, CSV import); the parser
// converts decimal strings exactly and never goes through float64.
func CentsFromUnits(units float64) int64 {
	if units >= 0 {
		return int64(units*100 + 0.5)
	}
	return -int64(-units*100 + 0.5)
}
