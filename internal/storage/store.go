package storage

import (
	"sync"
	"time"

	"github.com/centsible/centsible/internal/ratelimit"
	"github.com/google/uuid"
)

// Operation kinds consulted against the rate limiter before any mutation.
const (
	OpAddExpense      = "expense.add"
	OpUpdateExpense   = "expense.update"
	OpDeleteExpense   = "expense.delete"
	OpSetBudget       = "budget.set"
	OpDeleteBudget    = "budget.delete"
	OpSavePreferences = "preferences.save"
)

// Store is the record store over the three persisted collections:
// expenses, budgets and preferences. Every mutation reads the entire
// current collection, applies the change and writes the entire collection
// back; the store assumes a single writer per database.
type Store struct {
	kv      KV
	limiter *ratelimit.Limiter
	now     func() time.Time
	newID   func() string
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the id generator, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates a Store over the given persistence surface. The limiter is
// consulted by every convenience mutator; pass a fresh instance per store.
func New(kv KV, limiter *ratelimit.Limiter, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		limiter: limiter,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
