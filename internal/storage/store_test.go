package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

// newTestStore builds a store over an in-memory KV with a deterministic
// clock and sequential ids.
func newTestStore(t *testing.T, opts ...ratelimit.Option) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	seq := 0
	store := New(kv, ratelimit.New(opts...),
		WithClock(func() time.Time { return storeNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
	return store, kv
}

func newFood(amount int64, day int) NewExpense {
	return NewExpense{
		AmountCents: amount,
		Category:    "Food",
		PaidAt:      model.NewDate(2024, 3, day),
	}
}

func TestAddExpense_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	added, err := store.AddExpense(ctx, NewExpense{
		AmountCents:   1599,
		Category:      "Food",
		Note:          "  lunch   <script>  ",
		PaymentMethod: "card",
		PaidAt:        model.NewDate(2024, 3, 15),
	})
	require.NoError(t, err)
	require.NotNil(t, added)

	assert.NotEmpty(t, added.ID)
	assert.Equal(t, int64(1599), added.AmountCents)
	assert.Equal(t, model.BaseCurrency, added.Currency)
	assert.Equal(t, "Food", added.Category)
	assert.Equal(t, "lunch script", added.Note, "free text is sanitized")
	assert.Equal(t, storeNow, added.CreatedAt)
	assert.Equal(t, storeNow, added.UpdatedAt)

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, *added, expenses[0])
}

func TestAddExpense_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddExpense(ctx, NewExpense{
		AmountCents: 0, // below minimum
		Category:    "Food",
		PaidAt:      model.NewDate(2024, 3, 15),
	})
	require.ErrorIs(t, err, common.ErrValidation)

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses, "failed add must not persist anything")
}

func TestSaveExpenses_FailClosed(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	good, err := store.AddExpense(ctx, newFood(1000, 1))
	require.NoError(t, err)

	bad := *good
	bad.ID = "other"
	bad.AmountCents = model.MaxAmountCents + 1

	err = store.SaveExpenses(ctx, []model.Expense{*good, bad})
	require.ErrorIs(t, err, common.ErrValidation)

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1, "previously persisted state must be untouched")
	assert.Equal(t, good.ID, expenses[0].ID)
}

func TestExpenses_CorruptBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, KeyExpenses, "{not json"))
	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)

	// Structurally valid JSON with an invalid record: whole collection
	// degrades, never a partially-valid subset.
	require.NoError(t, kv.Set(ctx, KeyExpenses,
		`[{"id":"a","amountCents":100,"currency":"USD","category":"Food","paidAt":"2024-03-01","createdAt":"2024-03-01T00:00:00Z","updatedAt":"2024-03-01T00:00:00Z"},
		  {"id":"","amountCents":100,"currency":"USD","category":"Food","paidAt":"2024-03-01","createdAt":"2024-03-01T00:00:00Z","updatedAt":"2024-03-01T00:00:00Z"}]`))
	expenses, err = store.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestSaveExpenses_ReadBackIdentical(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.AddExpense(ctx, newFood(1000, 1))
	require.NoError(t, err)
	second, err := store.AddExpense(ctx, newFood(2500, 2))
	require.NoError(t, err)

	want := []model.Expense{*second, *first} // reorder to prove save is literal
	require.NoError(t, store.SaveExpenses(ctx, want))

	got, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	added, err := store.AddExpense(ctx, newFood(1000, 1))
	require.NoError(t, err)

	amount := int64(2000)
	note := "  groceries  "
	updated, err := store.UpdateExpense(ctx, added.ID, ExpensePatch{
		AmountCents: &amount,
		Note:        &note,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(2000), updated.AmountCents)
	assert.Equal(t, "groceries", updated.Note)
	assert.Equal(t, "Food", updated.Category, "unpatched fields are preserved")

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, *updated, expenses[0])
}

func TestUpdateExpense_MissingIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	amount := int64(2000)
	updated, err := store.UpdateExpense(ctx, "no-such-id", ExpensePatch{AmountCents: &amount})
	require.NoError(t, err, "missing id is a normal outcome, not an error")
	assert.Nil(t, updated)
}

func TestDeleteExpense_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	added, err := store.AddExpense(ctx, newFood(1000, 1))
	require.NoError(t, err)

	removed, err := store.DeleteExpense(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteExpense(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete is a no-op")
}

func TestAddExpense_RateLimited(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, ratelimit.WithRule(OpAddExpense, ratelimit.Rule{Max: 2, Window: time.Minute}))

	for day := 1; day <= 2; day++ {
		_, err := store.AddExpense(ctx, newFood(1000, day))
		require.NoError(t, err)
	}

	_, err := store.AddExpense(ctx, newFood(1000, 3))
	require.ErrorIs(t, err, common.ErrRateLimited)
	assert.NotErrorIs(t, err, common.ErrValidation, "rate-limit failures are distinguishable from validation")

	expenses, err := store.Expenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 2, "denied call must not touch state")
}

func TestAddExpense_StorageFull(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Capacity = 64
	store := New(kv, ratelimit.New(), WithClock(func() time.Time { return storeNow }))

	_, err := store.AddExpense(ctx, newFood(1000, 1))
	require.ErrorIs(t, err, common.ErrStorageFull)
}

// overlapKV fails if two writes ever run concurrently, proving the store
// serializes its read-modify-write cycles.
type overlapKV struct {
	*MemoryKV
	active  atomic.Int32
	overlap atomic.Bool
}

func (o *overlapKV) Set(ctx context.Context, key, value string) error {
	if o.active.Add(1) > 1 {
		o.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	defer o.active.Add(-1)
	return o.MemoryKV.Set(ctx, key, value)
}

func TestStore_MutatorsAreSerialized(t *testing.T) {
	ctx := context.Background()
	kv := &overlapKV{MemoryKV: NewMemoryKV()}
	store := New(kv,
		ratelimit.New(ratelimit.WithRule(OpAddExpense, ratelimit.Rule{Max: 1000, Window: time.Minute})),
		WithClock(func() time.Time { return storeNow }))

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, _ = store.AddExpense(ctx, newFood(1000, day))
		}(i%27 + 1)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.SaveExpenses(ctx, nil)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.SaveBudgets(ctx, nil)
		}()
	}
	wg.Wait()

	assert.False(t, kv.overlap.Load(), "bulk saves must hold the same lock as the convenience mutators")
}

func TestSetBudget_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.SetBudget(ctx, "2024-03", "", 50_000)
	require.NoError(t, err)

	second, err := store.SetBudget(ctx, "2024-03", "", 75_000)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "replacing a pair preserves its id")
	assert.Equal(t, int64(75_000), second.LimitCents)

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1, "one budget per (yearMonth, category) pair")

	// A category-scoped budget for the same month is a distinct pair.
	_, err = store.SetBudget(ctx, "2024-03", "Food", 20_000)
	require.NoError(t, err)
	budgets, err = store.Budgets(ctx)
	require.NoError(t, err)
	assert.Len(t, budgets, 2)
}

func TestSetBudget_RejectsBadYearMonth(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.SetBudget(ctx, "March 2024", "", 50_000)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestDeleteBudget(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	budget, err := store.SetBudget(ctx, "2024-03", "", 50_000)
	require.NoError(t, err)

	removed, err := store.DeleteBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
