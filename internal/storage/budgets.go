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

// Budgets returns the persisted budget collection, degrading to empty on
// an absent or invalid blob.
func (s *Store) Budgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.loadBudgets(ctx)
}

func (s *Store) loadBudgets(ctx context.Context) ([]model.Budget, error) {
	raw, ok, err := s.kv.Get(ctx, KeyBudgets)
	if err != nil {
		return nil, fmt.Errorf("failed to read budgets: %w", err)
	}
	if !ok {
		return []model.Budget{}, nil
	}

	var budgets []model.Budget
	if err := json.Unmarshal([]byte(raw), &budgets); err != nil {
		slog.Warn("budgets blob is unreadable, starting from empty", "error", err)
		return []model.Budget{}, nil
	}
	for i := range budgets {
		if !validBudget(&budgets[i]) {
			slog.Warn("budgets blob failed validation, starting from empty", "index", i)
			return []model.Budget{}, nil
		}
	}
	return budgets, nil
}

// SaveBudgets persists the whole collection after re-validating every
// member. One invalid record rejects the whole write.
func (s *Store) SaveBudgets(ctx context.Context, budgets []model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistBudgets(ctx, budgets)
}

func (s *Store) persistBudgets(ctx context.Context, budgets []model.Budget) error {
	for i := range budgets {
		if !validBudget(&budgets[i]) {
			return fmt.Errorf("%w: budget at index %d", common.ErrValidation, i)
		}
	}
	raw, err := json.Marshal(budgets)
	if err != nil {
		return fmt.Errorf("failed to encode budgets: %w", err)
	}
	if err := s.kv.Set(ctx, KeyBudgets, string(raw)); err != nil {
		return fmt.Errorf("failed to persist budgets: %w", err)
	}
	slog.Debug("persisted budgets", "count", len(budgets))
	return nil
}

// SetBudget upserts the budget keyed by (yearMonth, category). Replacing
// an existing pair keeps its id; an empty category means the overall
// monthly budget.
func (s *Store) SetBudget(ctx context.Context, yearMonth, category string, limitCents int64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !validYearMonth(yearMonth) {
		return nil, fmt.Errorf("%w: year-month %q", common.ErrValidation, yearMonth)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSetBudget) {
		return nil, fmt.Errorf("%w: %s", common.ErrRateLimited, OpSetBudget)
	}

	budgets, err := s.loadBudgets(ctx)
	if err != nil {
		return nil, err
	}

	category = sanitize.CategoryName(category)
	budget := model.Budget{
		ID:         s.newID(),
		YearMonth:  yearMonth,
		Category:   category,
		LimitCents: limitCents,
	}

	replaced := false
	for i := range budgets {
		if budgets[i].YearMonth == yearMonth && budgets[i].Category == category {
			budget.ID = budgets[i].ID
			budgets[i] = budget
			replaced = true
			break
		}
	}
	if !replaced {
		budgets = append(budgets, budget)
	}

	if err := s.persistBudgets(ctx, budgets); err != nil {
		return nil, err
	}
	slog.Info("set budget", "year_month", yearMonth, "category", category, "limit_cents", limitCents)
	return &budget, nil
}

// DeleteBudget removes the budget with the given id and reports whether
// anything was removed.
func (s *Store) DeleteBudget(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpDeleteBudget) {
		return false, fmt.Errorf("%w: %s", common.ErrRateLimited, OpDeleteBudget)
	}

	budgets, err := s.loadBudgets(ctx)
	if err != nil {
		return false, err
	}

	kept := budgets[:0]
	removed := false
	for i := range budgets {
		if budgets[i].ID == id {
			removed = true
			continue
		}
		kept = append(kept, budgets[i])
	}
	if !removed {
		return false, nil
	}

	if err := s.persistBudgets(ctx, kept); err != nil {
		return false, err
	}
	slog.Info("deleted budget", "id", id)
	return true, nil
}
