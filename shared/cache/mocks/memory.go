package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"vprime/shared/cache"
)

// MemoryCache is a stateful RedisCache for tests. TTLs are ignored. Setting Err makes every call fail.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Err     error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string][]byte{}}
}

func (m *MemoryCache) Save(_ context.Context, key string, value any, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if s, ok := value.(string); ok {
		m.entries[key] = []byte(s)

		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.entries[key] = payload

	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	raw, ok := m.entries[key]
	if !ok {
		return fmt.Errorf("getting %q: %w", key, cache.Nil)
	}

	if s, ok := value.(*string); ok {
		*s = string(raw)

		return nil
	}

	return json.Unmarshal(raw, value)
}

func (m *MemoryCache) Increment(_ context.Context, key string, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}

	var count int64
	if raw, ok := m.entries[key]; ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, err
		}

		count = parsed
	}

	count++
	m.entries[key] = []byte(strconv.FormatInt(count, 10))

	return count, nil
}

// Len reports how many keys are stored.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
