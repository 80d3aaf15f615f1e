// Package storage provides the data persistence layer: a synchronous
// key-value surface holding one serialized blob per collection, and the
// record store built on top of it.
package storage

import "context"

// Blob keys. Each collection persists as a single serialized value; there
// is no partial or incremental write format.
const (
	KeyExpenses    = "expenses"
	KeyBudgets     = "budgets"
	KeyPreferences = "preferences"
	KeyRates       = "rates"
)

// KV is the synchronous local persistence surface. Get reports absence
// via the boolean, not an error. Set fails with common.ErrStorageFull
// when the medium is out of capacity.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
