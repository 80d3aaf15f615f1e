package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// Validation errors for store parameters.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// The storage-integrity validators below return only a boolean verdict.
// Callers get a coarse invalid signal and fall back to a safe default;
// field-level diagnostics exist only on the user-facing validation path.

// validExpense reports whether a stored expense passes schema validation.
func validExpense(e *model.Expense) bool {
	if e == nil {
		return false
	}
	if e.ID == "" {
		return false
	}
	if e.AmountCents < model.MinAmountCents || e.AmountCents > model.MaxAmountCents {
		return false
	}
	if !validCurrency(e.Currency) {
		return false
	}
	if e.Category == "" || len([]rune(e.Category)) > model.MaxCategoryLen {
		return false
	}
	if len([]rune(e.Note)) > model.MaxNoteLen {
		return false
	}
	if len([]rune(e.PaymentMethod)) > model.MaxPaymentMethodLen {
		return false
	}
	if e.PaidAt.IsZero() || e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		return false
	}
	return true
}

// validBudget reports whether a stored budget passes schema validation.
func validBudget(b *model.Budget) bool {
	if b == nil {
		return false
	}
	if b.ID == "" {
		return false
	}
	if !validYearMonth(b.YearMonth) {
		return false
	}
	if b.Category != "" && len([]rune(b.Category)) > model.MaxCategoryLen {
		return false
	}
	if b.LimitCents < 0 || b.LimitCents > model.MaxBudgetCents {
		return false
	}
	return true
}

// validPreferences reports whether a preferences object passes schema
// validation.
func validPreferences(p *model.Preferences) bool {
	if p == nil {
		return false
	}
	if !validCurrency(p.Currency) || !validCurrency(p.DisplayCurrency) {
		return false
	}
	if p.Theme != model.ThemeLight && p.Theme != model.ThemeDark {
		return false
	}
	if p.MonthlyBudgetCents < 0 || p.MonthlyBudgetCents > model.MaxBudgetCents {
		return false
	}
	for i := range p.Categories {
		c := &p.Categories[i]
		if c.ID == "" || c.Name == "" || len([]rune(c.Name)) > model.MaxCategoryLen {
			return false
		}
	}
	return true
}

// validYearMonth reports whether s is a YYYY-MM key.
func validYearMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// validCurrency reports whether s is a 3-letter uppercase code.
func validCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
