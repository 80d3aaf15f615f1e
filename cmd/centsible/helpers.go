package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/money"
	"github.com/centsible/centsible/internal/ratelimit"
	"github.com/centsible/centsible/internal/rates"
	"github.com/centsible/centsible/internal/sanitize"
	"github.com/centsible/centsible/internal/storage"
)

// openStore wires the SQLite-backed key-value surface, a fresh rate
// limiter and the record store. The caller must invoke close.
func openStore() (store *storage.Store, kv *storage.SQLiteKV, closeFn func(), err error) {
	kv, err = storage.NewSQLiteKV(config.DatabasePath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open data store: %w", err)
	}

	limiter := ratelimit.New(
		ratelimit.WithRule(storage.OpAddExpense, ratelimit.Rule{Max: 30, Window: 10 * time.Second}),
		ratelimit.WithRule(storage.OpUpdateExpense, ratelimit.Rule{Max: 30, Window: 10 * time.Second}),
		ratelimit.WithRule(storage.OpDeleteExpense, ratelimit.Rule{Max: 30, Window: 10 * time.Second}),
		ratelimit.WithRule(storage.OpSetBudget, ratelimit.Rule{Max: 20, Window: 10 * time.Second}),
		ratelimit.WithRule(storage.OpSavePreferences, ratelimit.Rule{Max: 20, Window: 10 * time.Second}),
	)

	store = storage.New(kv, limiter)
	return store, kv, func() { _ = kv.Close() }, nil
}

// displayFormatter resolves the preferred display currency and its rate,
// returning a formatter over stored base-currency cents. Conversion is a
// read-time concern only.
func displayFormatter(ctx context.Context, store *storage.Store, kv storage.KV) (func(int64) string, error) {
	prefs, err := store.Preferences(ctx)
	if err != nil {
		return nil, err
	}

	display := prefs.DisplayCurrency
	if display == "" {
		display = prefs.Currency
	}
	rate := rates.New(kv).Rate(ctx, display)

	return func(cents int64) string {
		return money.Format(money.Convert(cents, rate), display)
	}, nil
}

// friendlyError maps store errors to the messages users should see.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, common.ErrRateLimited):
		return common.NewUserError("Too many operations at once; slow down and retry", err)
	case errors.Is(err, common.ErrStorageFull):
		return common.NewUserError("Local storage is full; export and prune old expenses", err)
	case errors.Is(err, common.ErrValidation):
		return common.NewUserError("The data did not pass validation", err)
	default:
		return err
	}
}

// parseAmountArg turns a user-typed amount into cents. The string is
// sanitized first so currency symbols and stray separators don't reject
// an otherwise readable amount.
func parseAmountArg(raw string) (int64, error) {
	cents, err := money.ParseAmountToCents(sanitize.Amount(raw))
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("amount %q is not a positive number", raw), err)
	}
	return cents, nil
}

// parseDateFlag parses an optional --date flag, defaulting to today.
func parseDateFlag(raw string) (model.Date, error) {
	if raw == "" {
		return model.DateOf(time.Now()), nil
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, common.NewUserError(fmt.Sprintf("date %q must be YYYY-MM-DD", raw), err)
	}
	return date, nil
}

func printProblems(problems []string) {
	fmt.Println(cli.ErrorStyle.Render("Cannot save expense:"))
	for _, p := range problems {
		fmt.Printf("  %s %s\n", cli.ErrorStyle.Render("✗"), p)
	}
}
