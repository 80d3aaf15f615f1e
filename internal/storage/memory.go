package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/centsible/centsible/internal/common"
)

// MemoryKV is an in-memory KV implementation for tests and ephemeral
// runs. A non-zero Capacity caps the total stored bytes so callers can
// exercise the storage-full path.
type MemoryKV struct {
	data     map[string]string
	Capacity int
	mu       sync.Mutex
}

// NewMemoryKV creates an empty in-memory KV with no capacity limit.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the blob stored under key, or absence.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores value under key, honoring the capacity limit if set.
func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Capacity > 0 {
		total := len(value)
		for k, v := range m.data {
			if k != key {
				total += len(v)
			}
		}
		if total > m.Capacity {
			return fmt.Errorf("%w: %d bytes over %d byte capacity", common.ErrStorageFull, total-m.Capacity, m.Capacity)
		}
	}

	m.data[key] = value
	return nil
}
