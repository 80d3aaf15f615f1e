// Package rates provides best-effort exchange rates for display
// formatting. Rates are cached in the local store, refreshed at most once
// per staleness window, and fall back to a fixed table when the network
// is unavailable. The formatting path never blocks on a fetch.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/storage"
)

// DefaultURL serves {"base": "...", "rates": {code: rate}} for the base
// currency.
const DefaultURL = "https://open.er-api.com/v6/latest/" + model.BaseCurrency

// StaleAfter is the cooperative refresh threshold.
const StaleAfter = 24 * time.Hour

// fallbackRates keeps conversion working offline. Deliberately coarse;
// rates are best-effort by design.
var fallbackRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 151.0,
	"INR": 83.0,
	"CAD": 1.36,
	"AUD": 1.52,
	"CHF": 0.88,
}

// CachedRates is the persisted exchange-rate blob.
type CachedRates struct {
	UpdatedAt time.Time          `json:"updatedAt"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
}

// Service resolves display-currency rates against the base currency.
type Service struct {
	kv         storage.KV
	httpClient *http.Client
	now        func() time.Time
	url        string
}

// Option configures a Service.
type Option func(*Service)

// WithURL overrides the rate endpoint.
func WithURL(url string) Option {
	return func(s *Service) {
		s.url = url
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// New creates a rate service persisting its cache in the given KV.
func New(kv storage.KV, opts ...Option) *Service {
	s := &Service{
		kv:  kv,
		url: DefaultURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rate returns the multiplier from base-currency cents to the display
// currency. It never fails and never touches the network: base maps to 1,
// any cached rate wins (a stale one logs a warning), and the fixed
// fallback table covers everything else. Unknown currencies format
// unconverted at rate 1. Fetching happens only through Refresh and
// RefreshIfStale.
func (s *Service) Rate(ctx context.Context, display string) float64 {
	if display == "" || display == model.BaseCurrency {
		return 1
	}

	if cached := s.load(ctx); cached != nil {
		if rate, ok := cached.Rates[display]; ok && rate > 0 {
			if s.now().Sub(cached.UpdatedAt) >= StaleAfter {
				slog.Warn("cached rates are stale", "currency", display, "updated_at", cached.UpdatedAt)
			}
			return rate
		}
	}
	if rate, ok := fallbackRates[display]; ok {
		return rate
	}
	return 1
}

// Refresh fetches current rates and persists them as the new cache.
func (s *Service) Refresh(ctx context.Context) (*CachedRates, error) {
	var fetched *CachedRates
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		fetched, fetchErr = s.fetch(ctx)
		return fetchErr
	}, common.RetryOptions{MaxAttempts: 2, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(fetched)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rates: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyRates, string(raw)); err != nil {
		// A full store must not break the formatting path.
		slog.Warn("failed to cache rates", "error", err)
	}
	slog.Info("refreshed exchange rates", "count", len(fetched.Rates))
	return fetched, nil
}

// RefreshIfStale fetches only when the cache is older than StaleAfter.
func (s *Service) RefreshIfStale(ctx context.Context) error {
	cached := s.load(ctx)
	if cached != nil && s.now().Sub(cached.UpdatedAt) < StaleAfter {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

// Cached returns the persisted rate blob, or nil when nothing usable is
// cached.
func (s *Service) Cached(ctx context.Context) *CachedRates {
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) *CachedRates {
	raw, ok, err := s.kv.Get(ctx, storage.KeyRates)
	if err != nil || !ok {
		return nil
	}
	var cached CachedRates
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		slog.Warn("rates cache is unreadable, ignoring", "error", err)
		return nil
	}
	return &cached
}

func (s *Service) fetch(ctx context.Context) (*CachedRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read rates response: %w", err)
	}

	var payload struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates response contained no rates")
	}

	base := payload.Base
	if base == "" {
		base = model.BaseCurrency
	}
	return &CachedRates{
		Base:      base,
		Rates:     payload.Rates,
		UpdatedAt: s.now(),
	}, nil
}
