package parse

import "budgetai/internal/core"

// Rule associates one category with the keywords that select it.
type Rule struct {
	Category core.Category
	Keywords []string
}

// DefaultRules returns the built-in classification table. Order is part
// of the contract: rules are tested top to bottom and the first keyword
// hit wins, so an utterance matching both Food and Transport keywords
// classifies as Food.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: core.CategoryFood,
			Keywords: []string{
				"zomato", "swiggy", "food", "pizza", "burger",
				"coffee", "lunch", "dinner", "groceries", "restaurant",
			},
		},
		{
			Category: core.CategoryTransport,
			Keywords: []string{
				"uber", "ola", "taxi", "bus", "train",
				"metro", "petrol", "fuel",
			},
		},
		{
			Category: core.CategoryRent,
			Keywords: []string{
				"rent", "room", "pg", "hostel", "deposit", "lease",
			},
		},
	}
}

// DefaultCurrencyWords returns the keywords recognized as currency
// markers next to a numeric token.
func DefaultCurrencyWords() []string {
	return []string{"rs", "rupees", "rupee", "inr", "₹"}
}
