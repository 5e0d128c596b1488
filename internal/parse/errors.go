package parse

import "fmt"

// FailureKind identifies why an utterance could not be parsed.
type FailureKind string

const (
	// NoAmountFound means the utterance contains no numeric token.
	NoAmountFound FailureKind = "no_amount_found"
	// InvalidAmount means a numeric token is present but semantically
	// invalid, e.g. negative or not representable as money.
	InvalidAmount FailureKind = "invalid_amount"
)

// ParseError is the typed, recoverable failure returned by Parse.
// Classification never fails; only amount extraction produces one.
type ParseError struct {
	Kind FailureKind
	Text string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoAmountFound:
		return fmt.Sprintf("parse %q: no amount found", e.Text)
	case InvalidAmount:
		return fmt.Sprintf("parse %q: invalid amount", e.Text)
	default:
		return fmt.Sprintf("parse %q: %s", e.Text, e.Kind)
	}
}

// FailureKindOf returns the failure kind when err is a *ParseError.
func FailureKindOf(err error) (FailureKind, bool) {
	if pe, ok := err.(*ParseError); ok {
		return pe.Kind, true
	}
	return "", false
}
