package insights

import (
	"math/rand"

	"budgetai/internal/core"
)

// tipsByCategory holds canned saving tips keyed by the category the
// user spends most on.
var tipsByCategory = map[core.Category][]string{
	core.CategoryFood: {
		"Meal prepping can save you 2000 a month!",
		"Making coffee at home saves 150 a week!",
	},
	core.CategoryTransport: {
		"Cycling twice a week adds up to 800 saved!",
		"Carpool with 3 friends to split fuel costs!",
	},
	core.CategoryRent: {
		"Negotiate rent before renewing the lease!",
		"Switch to LED bulbs to reduce electricity bills!",
	},
}

var fallbackTips = []string{
	"Save 10% of every paycheck automatically!",
}

// FirstTip is shown when there is no history to analyze yet.
const FirstTip = "Start by logging your first expense!"

// Tip picks a saving tip for the given top category. Categories without
// dedicated tips get a generic one. rng may be nil, in which case the
// shared math/rand source is used.
func Tip(top core.Category, rng *rand.Rand) string {
	pool, ok := tipsByCategory[top]
	if !ok || len(pool) == 0 {
		pool = fallbackTips
	}
	if rng != nil {
		return pool[rng.Intn(len(pool))]
	}
	return pool[rand.Intn(len(pool))]
}
