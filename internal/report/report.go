// Package report derives read-only views from the raw expense
// collection: month-scoped subsets, per-category totals and budget
// progress. Nothing here mutates stored data.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// MonthRange returns the first and last calendar date of the given
// YYYY-MM key. Variable month lengths and leap years are handled by the
// date arithmetic itself.
func MonthRange(yearMonth string) (model.Date, model.Date, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return model.Date{}, model.Date{}, fmt.Errorf("invalid year-month %q: %w", yearMonth, err)
	}
	first := model.DateOf(t)
	last := model.DateOf(t.AddDate(0, 1, -1))
	return first, last, nil
}

// ForMonth filters expenses to those whose date falls inclusively within
// the given month.
func ForMonth(expenses []model.Expense, yearMonth string) ([]model.Expense, error) {
	first, last, err := MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	var scoped []model.Expense
	for _, e := range expenses {
		if e.PaidAt.Before(first) || e.PaidAt.After(last) {
			continue
		}
		scoped = append(scoped, e)
	}
	return scoped, nil
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category   string
	TotalCents int64
	Count      int
}

// CategoryTotals groups expenses by their category string, summing
// amounts and counting records, ordered descending by total. The sort is
// stable, so categories with equal totals keep first-encountered order.
func CategoryTotals(expenses []model.Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal

	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category})
		}
		totals[i].TotalCents += e.AmountCents
		totals[i].Count++
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].TotalCents > totals[b].TotalCents
	})
	return totals
}

// BudgetLine pairs a budget with the month's spending against it.
type BudgetLine struct {
	Budget         model.Budget
	SpentCents     int64
	RemainingCents int64
}

// BudgetStatus computes spending against every budget for the given
// month. The overall budget (empty category) counts all expenses in the
// month; category budgets count only their own.
func BudgetStatus(expenses []model.Expense, budgets []model.Budget, yearMonth string) ([]BudgetLine, error) {
	scoped, err := ForMonth(expenses, yearMonth)
	if err != nil {
		return nil, err
	}

	var lines []BudgetLine
	for _, b := range budgets {
		if b.YearMonth != yearMonth {
			continue
		}
		var spent int64
		for _, e := range scoped {
			if b.Category == "" || e.Category == b.Category {
				spent += e.AmountCents
			}
		}
		lines = append(lines, BudgetLine{
			Budget:         b,
			SpentCents:     spent,
			RemainingCents: b.LimitCents - spent,
		})
	}
	return lines, nil
}
