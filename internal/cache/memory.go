package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	memoryNumCounters = 1e5
	memoryMaxCost     = 8 << 20
	memoryBufferItems = 64
)

// Memory is an in-process Store backed by ristretto. Cost is the value size in bytes.
type Memory struct {
	cache *ristretto.Cache
}

// NewMemory creates an in-process store holding up to roughly 8 MiB of values.
func NewMemory() (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: memoryNumCounters,
		MaxCost:     memoryMaxCost,
		BufferItems: memoryBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("cache.NewMemory: %w", err)
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

// Set stores value. Ristretto admits entries asynchronously and may reject
// them under pressure; a rejected entry is simply not cached.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.cache.SetWithTTL(key, stored, int64(len(stored)), ttl)
	return nil
}

// Wait blocks until pending writes are applied.
func (m *Memory) Wait() {
	m.cache.Wait()
}

func (m *Memory) Close() error {
	m.cache.Close()
	return nil
}
