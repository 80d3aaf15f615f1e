package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/sanitize"
)

// Categories live inside the preferences blob; expenses reference them by
// name as a soft reference. Rename and reorder never touch historical
// expenses; only delete and merge cascade across entities.

// AddCategory appends a new category to the ordered list, auto-assigning
// a palette color. Names are unique case-insensitively.
func (s *Store) AddCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSavePreferences) {
		return nil, fmt.Errorf("%w: %s", common.ErrRateLimited, OpSavePreferences)
	}

	name = sanitize.CategoryName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name", common.ErrValidation)
	}

	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return nil, err
	}
	for i := range prefs.Categories {
		if strings.EqualFold(prefs.Categories[i].Name, name) {
			return nil, fmt.Errorf("%w: %q", common.ErrDuplicateCategory, name)
		}
	}

	category := model.Category{
		ID:    s.newID(),
		Name:  name,
		Color: model.AutoColor(len(prefs.Categories)),
	}
	prefs.Categories = append(prefs.Categories, category)

	if err := s.persistPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	slog.Info("added category", "name", name)
	return &category, nil
}

// RenameCategory changes a category's display name. Historical expenses
// keep the old string; that is the intended soft-reference behavior.
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSavePreferences) {
		return fmt.Errorf("%w: %s", common.ErrRateLimited, OpSavePreferences)
	}

	newName = sanitize.CategoryName(newName)
	if newName == "" {
		return fmt.Errorf("%w: category name", common.ErrValidation)
	}

	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return err
	}

	target := -1
	for i := range prefs.Categories {
		if prefs.Categories[i].Name == oldName {
			target = i
		} else if strings.EqualFold(prefs.Categories[i].Name, newName) {
			return fmt.Errorf("%w: %q", common.ErrDuplicateCategory, newName)
		}
	}
	if target < 0 {
		return fmt.Errorf("%w: %q", common.ErrUnknownCategory, oldName)
	}

	prefs.Categories[target].Name = newName
	if err := s.persistPreferences(ctx, prefs); err != nil {
		return err
	}
	slog.Info("renamed category", "from", oldName, "to", newName)
	return nil
}

// DeleteCategory removes a category with no referencing expenses. When
// expenses still reference it the delete is refused; merge first.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSavePreferences) {
		return fmt.Errorf("%w: %s", common.ErrRateLimited, OpSavePreferences)
	}

	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return err
	}
	if prefs.FindCategory(name) == nil {
		return fmt.Errorf("%w: %q", common.ErrUnknownCategory, name)
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return err
	}
	referencing := 0
	for i := range expenses {
		if expenses[i].Category == name {
			referencing++
		}
	}
	if referencing > 0 {
		return fmt.Errorf("%w: %q has %d expenses", common.ErrCategoryInUse, name, referencing)
	}

	kept := prefs.Categories[:0]
	for i := range prefs.Categories {
		if prefs.Categories[i].Name != name {
			kept = append(kept, prefs.Categories[i])
		}
	}
	prefs.Categories = kept

	if err := s.persistPreferences(ctx, prefs); err != nil {
		return err
	}
	slog.Info("deleted category", "name", name)
	return nil
}

// MergeCategory rewrites every expense referencing the from category to
// the to category's name, then removes from. Returns how many expenses
// were rewritten. The two blobs are written expenses-first: if the
// preferences write fails the source category survives with zero
// referencing expenses, never the reverse, so the category list always
// covers every string expenses reference.
func (s *Store) MergeCategory(ctx context.Context, from, to string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if from == to {
		return 0, fmt.Errorf("%w: cannot merge a category into itself", common.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow(OpSavePreferences) {
		return 0, fmt.Errorf("%w: %s", common.ErrRateLimited, OpSavePreferences)
	}

	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return 0, err
	}
	if prefs.FindCategory(from) == nil {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownCategory, from)
	}
	if prefs.FindCategory(to) == nil {
		return 0, fmt.Errorf("%w: %q", common.ErrUnknownCategory, to)
	}

	expenses, err := s.loadExpenses(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	rewritten := 0
	for i := range expenses {
		if expenses[i].Category == from {
			expenses[i].Category = to
			expenses[i].UpdatedAt = now
			rewritten++
		}
	}
	if rewritten > 0 {
		if err := s.persistExpenses(ctx, expenses); err != nil {
			return 0, err
		}
	}

	kept := prefs.Categories[:0]
	for i := range prefs.Categories {
		if prefs.Categories[i].Name != from {
			kept = append(kept, prefs.Categories[i])
		}
	}
	prefs.Categories = kept

	if err := s.persistPreferences(ctx, prefs); err != nil {
		return rewritten, err
	}
	slog.Info("merged category", "from", from, "to", to, "rewritten", rewritten)
	return rewritten, nil
}
