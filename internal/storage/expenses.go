package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/sanitize"
)

// NewExpense carries the caller-supplied fields for a new expense. The
// store sanitizes free text, mints the id and stamps the timestamps.
type NewExpense struct {
	Category      string
	Note          string
	PaymentMethod string
	PaidAt        model.Date
	AmountCents   int64
}

// ExpensePatch is a partial update; nil fields are left untouched.
type ExpensePatch struct {
	AmountCents   *int64
	Category      *string
	Note          *string
	PaymentMethod *string
	PaidAt        *model.Date
}

// Expenses returns the persisted expense collection. An absent blob
// yields an empty collection; a blob that fails schema validation is
// logged and degraded to an empty collection rather than partial data.
func (s *Store) Expenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadExpenses(ctx)
}

func (s *Store) loadExpenses(ctx context.Context) ([]model.Expense, error) {
	raw, ok, err := s.kv.Get(ctx, KeyExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	if !ok {
		return []model.Expense{}, nil
	}

	var expenses []model.Expense
	if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
		slog.Warn("expenses blob is unreadable, starting from empty", "error", err)
		return []model.Expense{}, nil
	}
	for i := range expenses {
		if !validExpense(&expenses[i]) {
			slog.Warn("expenses blob failed validation, starting from empty", "index", i)
			return []model.Expense{}, nil
		}
	}
	return expenses, nil
}

// SaveExpenses persists the whole collection, re-validating every member
// first. A collection containing one invalid record is rejected wholesale
// and the previously persisted state is left untouched.
func (s *Store) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistExpenses(ctx, expenses)
}

func (s *Store) persistExpenses(ctx context.Context, expenses []model.Expense) error {
	for i := range expenses {
		if !validExpense(&expenses[i]) {
			return fmt.Errorf("%w: expense at index %d", common.ErrValidation, i)
		}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := s.kv.Set(ctx, KeyExpenses, string(raw)); err != nil {
		return fmt.Errorf("failed to persist expenses: %w", err)
	}
	slog.Debug("persisted expenses", "count", len(expenses))
	return nil
}

// AddExpense sanitizes the free-text fields, stamps a fresh id and
// timestamps, appends the record and persists the whole collection.
func (s *Store) AddExpense(ctx context.Context, in NewExpense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpAddExpense) {
		return nil, fmt.Errorf("%w: %s", common.ErrRateLimited, OpAddExpense)
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := model.Expense{
		ID:            s.newID(),
		AmountCents:   in.AmountCents,
		Currency:      model.BaseCurrency,
		Category:      sanitize.CategoryName(in.Category),
		Note:          sanitize.Text(in.Note, model.MaxNoteLen),
		PaymentMethod: sanitize.Text(in.PaymentMethod, model.MaxPaymentMethodLen),
		PaidAt:        in.PaidAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !validExpense(&expense) {
		return nil, fmt.Errorf("%w: expense", common.ErrValidation)
	}

	if err := s.persistExpenses(ctx, append(expenses, expense)); err != nil {
		return nil, err
	}
	slog.Info("added expense", "id", expense.ID, "category", expense.Category, "amount_cents", expense.AmountCents)
	return &expense, nil
}

// UpdateExpense merges the patch over the stored record and persists. A
// missing id is a normal outcome and returns (nil, nil), not an error.
func (s *Store) UpdateExpense(ctx context.Context, id string, patch ExpensePatch) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpUpdateExpense) {
		return nil, fmt.Errorf("%w: %s", common.ErrRateLimited, OpUpdateExpense)
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range expenses {
		if expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}

	updated := expenses[idx]
	if patch.AmountCents != nil {
		updated.AmountCents = *patch.AmountCents
	}
	if patch.Category != nil {
		updated.Category = sanitize.CategoryName(*patch.Category)
	}
	if patch.Note != nil {
		updated.Note = sanitize.Text(*patch.Note, model.MaxNoteLen)
	}
	if patch.PaymentMethod != nil {
		updated.PaymentMethod = sanitize.Text(*patch.PaymentMethod, model.MaxPaymentMethodLen)
	}
	if patch.PaidAt != nil {
		updated.PaidAt = *patch.PaidAt
	}
	updated.UpdatedAt = s.now()

	if !validExpense(&updated) {
		return nil, fmt.Errorf("%w: expense %s", common.ErrValidation, id)
	}

	expenses[idx] = updated
	if err := s.persistExpenses(ctx, expenses); err != nil {
		return nil, err
	}
	slog.Info("updated expense", "id", id)
	return &updated, nil
}

// DeleteExpense removes the record with the given id and reports whether
// anything was actually removed; a missing id is an idempotent no-op.
func (s *Store) DeleteExpense(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpDeleteExpense) {
		return false, fmt.Errorf("%w: %s", common.ErrRateLimited, OpDeleteExpense)
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return false, err
	}

	kept := expenses[:0]
	removed := false
	for i := range expenses {
		if expenses[i].ID == id {
			removed = true
			continue
		}
		kept = append(kept, expenses[i])
	}
	if !removed {
		return false, nil
	}

	if err := s.persistExpenses(ctx, kept); err != nil {
		return false, err
	}
	slog.Info("deleted expense", "id", id)
	return true, nil
}
