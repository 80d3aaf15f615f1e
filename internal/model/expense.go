// Package model defines the core domain types persisted by the record store.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Amount bounds for a single expense, in minor units.
const (
	MinAmountCents int64 = 1
	MaxAmountCents int64 = 100_000_000 // 1,000,000.00 major units
)

// Field length limits shared by validation and sanitization.
const (
	MaxCategoryLen      = 50
	MaxNoteLen          = 500
	MaxPaymentMethodLen = 50
)

// MaxExpenseAge is how far in the past an expense date may lie.
const MaxExpenseAge = 10 * 365 * 24 * time.Hour

// Expense represents a single spending event. Amounts are stored as an
// integer count of minor units in the base currency; the category is a
// denormalized display string, not a reference to a Category id.
type Expense struct {
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ID            string    `json:"id"`
	Currency      string    `json:"currency"`
	Category      string    `json:"category"`
	Note          string    `json:"note,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	PaidAt        Date      `json:"paidAt"`
	AmountCents   int64     `json:"amountCents"`
}

// DedupeKey returns a hash identifying this expense for duplicate
// detection during import: two expenses collide when date, amount,
// category and note all match exactly.
func (e *Expense) DedupeKey() string {
	data := fmt.Sprintf("%s:%d:%s:%s",
		e.PaidAt.String(),
		e.AmountCents,
		e.Category,
		e.Note)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
