package model

// Budget is a spending ceiling for one calendar month. An empty Category
// means the overall monthly budget. At most one budget may exist per
// (YearMonth, Category) pair; SetBudget enforces this by replacing in
// place with the same id.
type Budget struct {
	ID         string `json:"id"`
	YearMonth  string `json:"yearMonth"`
	Category   string `json:"category,omitempty"`
	LimitCents int64  `json:"limitCents"`
}

// MaxBudgetCents is the upper bound for a budget limit, in minor units.
const MaxBudgetCents int64 = 100_000_000
