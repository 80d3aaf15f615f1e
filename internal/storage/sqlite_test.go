package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "centsible.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get(ctx, KeyExpenses)
	require.NoError(t, err)
	assert.False(t, ok, "fresh database has no blobs")

	require.NoError(t, kv.Set(ctx, KeyExpenses, `[{"id":"a"}]`))
	value, ok, err := kv.Get(ctx, KeyExpenses)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)

	// Overwrite replaces the blob in place.
	require.NoError(t, kv.Set(ctx, KeyExpenses, `[]`))
	value, ok, err = kv.Get(ctx, KeyExpenses)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, value)
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "centsible.db")

	kv, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyBudgets, `[{"id":"b"}]`))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, KeyBudgets)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"b"}]`, value)
}

func TestSQLiteKV_EmptyPathRejected(t *testing.T) {
	_, err := NewSQLiteKV("")
	require.Error(t, err)
}
