package model

import "time"

// Themes the UI layer understands. The store only validates membership.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the process-wide settings singleton. Currency is the
// fixed base currency all amounts are stored in; DisplayCurrency only
// affects read-time formatting.
type Preferences struct {
	LastUpdated        time.Time  `json:"lastUpdated"`
	Currency           string     `json:"currency"`
	DisplayCurrency    string     `json:"displayCurrency"`
	Theme              string     `json:"theme"`
	Categories         []Category `json:"categories"`
	MonthlyBudgetCents int64      `json:"monthlyBudgetCents"`
}

// BaseCurrency is the fixed storage currency.
const BaseCurrency = "USD"

// DefaultCategoryNames seeds a fresh install's ordered category list.
var DefaultCategoryNames = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Bills",
	"Health",
	"Other",
}

// DefaultPreferences returns the preferences used when nothing has been
// persisted yet. Category ids are minted by the caller-supplied generator
// so tests can stay deterministic.
func DefaultPreferences(newID func() string) Preferences {
	categories := make([]Category, 0, len(DefaultCategoryNames))
	for i, name := range DefaultCategoryNames {
		categories = append(categories, Category{
			ID:    newID(),
			Name:  name,
			Color: AutoColor(i),
		})
	}
	return Preferences{
		Currency:        BaseCurrency,
		DisplayCurrency: BaseCurrency,
		Theme:           ThemeLight,
		Categories:      categories,
	}
}

// FindCategory returns the category with the given name, matched
// case-sensitively, or nil. Expense categories are soft references
// resolved by name equality.
func (p *Preferences) FindCategory(name string) *Category {
	for i := range p.Categories {
		if p.Categories[i].Name == name {
			return &p.Categories[i]
		}
	}
	return nil
}
