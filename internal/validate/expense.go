// Package validate implements user-facing expense validation. Unlike the
// storage-integrity checks, which only answer valid/invalid, these
// functions return every violation as a human-readable message so the
// caller can surface all problems at once.
package validate

import (
	"fmt"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// ExpenseInput is the slice of an expense a user can actually type in.
type ExpenseInput struct {
	Category      string
	Note          string
	PaymentMethod string
	PaidAt        model.Date
	AmountCents   int64
}

// Expense checks an expense about to be added or edited and returns the
// ordered list of violations, empty when the input is acceptable.
func Expense(in ExpenseInput, now time.Time) []string {
	var problems []string

	if in.AmountCents < model.MinAmountCents {
		problems = append(problems, "amount must be greater than zero")
	} else if in.AmountCents > model.MaxAmountCents {
		problems = append(problems, fmt.Sprintf("amount must not exceed %d.00", model.MaxAmountCents/100))
	}

	if in.Category == "" {
		problems = append(problems, "category is required")
	} else if len([]rune(in.Category)) > model.MaxCategoryLen {
		problems = append(problems, fmt.Sprintf("category must be at most %d characters", model.MaxCategoryLen))
	}

	if len([]rune(in.Note)) > model.MaxNoteLen {
		problems = append(problems, fmt.Sprintf("note must be at most %d characters", model.MaxNoteLen))
	}

	if len([]rune(in.PaymentMethod)) > model.MaxPaymentMethodLen {
		problems = append(problems, fmt.Sprintf("payment method must be at most %d characters", model.MaxPaymentMethodLen))
	}

	switch {
	case in.PaidAt.IsZero():
		problems = append(problems, "date is required")
	case in.PaidAt.After(model.DateOf(now)):
		problems = append(problems, "date must not be in the future")
	case in.PaidAt.Time().Before(now.Add(-model.MaxExpenseAge)):
		problems = append(problems, "date must not be more than 10 years in the past")
	}

	return problems
}
