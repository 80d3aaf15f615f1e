package storage

import (
	"encoding/json"
	"math"

	"github.com/centsible/centsible/internal/model"
)

// legacySettings is the historical flat Settings shape: a bare object
// with a display currency, plain category names and an optional monthly
// budget in major units.
type legacySettings struct {
	Currency      string   `json:"currency"`
	Categories    []string `json:"categories"`
	MonthlyBudget float64  `json:"monthlyBudget"`
}

// migrateLegacySettings converts a legacy blob to the current preferences
// shape. Plain category names gain minted ids and auto-assigned palette
// colors; the major-unit budget becomes cents.
func (s *Store) migrateLegacySettings(raw string) (model.Preferences, bool) {
	var legacy legacySettings
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return model.Preferences{}, false
	}
	if legacy.Currency == "" && len(legacy.Categories) == 0 {
		return model.Preferences{}, false
	}

	display := legacy.Currency
	if !validCurrency(display) {
		display = model.BaseCurrency
	}

	categories := make([]model.Category, 0, len(legacy.Categories))
	for i, name := range legacy.Categories {
		if name == "" {
			continue
		}
		categories = append(categories, model.Category{
			ID:    s.newID(),
			Name:  name,
			Color: model.AutoColor(i),
		})
	}

	var budgetCents int64
	if legacy.MonthlyBudget > 0 {
		budgetCents = int64(math.Round(legacy.MonthlyBudget * 100))
		if budgetCents > model.MaxBudgetCents {
			budgetCents = model.MaxBudgetCents
		}
	}

	return model.Preferences{
		Currency:           model.BaseCurrency,
		DisplayCurrency:    display,
		Theme:              model.ThemeLight,
		MonthlyBudgetCents: budgetCents,
		Categories:         categories,
	}, true
}
