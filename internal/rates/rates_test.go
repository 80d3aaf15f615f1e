package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/centsible/centsible/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ratesNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := New(kv,
		WithURL(server.URL),
		WithClock(func() time.Time { return ratesNow }),
		WithHTTPClient(server.Client()),
	)
	return svc, kv
}

func TestRate_BaseIsAlwaysOne(t *testing.T) {
	svc := New(storage.NewMemoryKV())
	assert.Equal(t, float64(1), svc.Rate(context.Background(), "USD"))
	assert.Equal(t, float64(1), svc.Rate(context.Background(), ""))
}

func TestRate_FreshCacheWinsWithoutFetch(t *testing.T) {
	ctx := context.Background()
	fetched := false
	svc, kv := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fetched = true
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, kv.Set(ctx, storage.KeyRates,
		`{"base":"USD","rates":{"EUR":0.95},"updatedAt":"2024-03-20T10:00:00Z"}`))

	assert.Equal(t, 0.95, svc.Rate(ctx, "EUR"))
	assert.False(t, fetched, "fresh cache must not trigger a fetch")
}

func TestRate_StaleCacheUsedWithoutFetch(t *testing.T) {
	ctx := context.Background()
	fetched := false
	svc, kv := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fetched = true
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.91}}`))
	})

	require.NoError(t, kv.Set(ctx, storage.KeyRates,
		`{"base":"USD","rates":{"EUR":0.95},"updatedAt":"2024-03-01T00:00:00Z"}`))

	assert.Equal(t, 0.95, svc.Rate(ctx, "EUR"), "a stale cached rate still formats")
	assert.False(t, fetched, "the formatting path must never touch the network")
}

func TestRate_NoCacheFallsBackToFixedTable(t *testing.T) {
	ctx := context.Background()
	fetched := false
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fetched = true
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Equal(t, fallbackRates["EUR"], svc.Rate(ctx, "EUR"))
	assert.Equal(t, float64(1), svc.Rate(ctx, "XXX"), "unknown currency formats unconverted")
	assert.False(t, fetched)
}

func TestRefreshIfStale(t *testing.T) {
	ctx := context.Background()
	fetches := 0
	svc, kv := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.91}}`))
	})

	require.NoError(t, svc.RefreshIfStale(ctx))
	assert.Equal(t, 1, fetches)

	// The freshly written cache suppresses the next refresh.
	require.NoError(t, svc.RefreshIfStale(ctx))
	assert.Equal(t, 1, fetches)

	_, ok, err := kv.Get(ctx, storage.KeyRates)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRefresh_RejectsEmptyRates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	})

	_, err := svc.Refresh(ctx)
	require.Error(t, err)
}
