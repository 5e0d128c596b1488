package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthSummary is a compact spending summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      Money
	Count      int
	ByCategory []CategoryAmount
}
