package cache

import (
	"sync"
	"time"
)

// entry stores one cached value with expiry.
type entry[V any] struct {
	expiresAt time.Time
	value     V
}

// TTLMap caches values per key for a TTL with a best-effort item cap. The
// zero TTL disables caching entirely: Get never hits. Safe for concurrent
// use.
type TTLMap[K comparable, V any] struct {
	TTL      time.Duration
	MaxItems int

	mu    sync.RWMutex
	items map[K]entry[V]
}

// Get returns the cached value for key if present and unexpired.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	var zero V
	if m.TTL <= 0 {
		return zero, false
	}
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. When the map exceeds MaxItems, expired
// entries are dropped first, then arbitrary ones until under the cap.
func (m *TTLMap[K, V]) Set(key K, value V) {
	if m.TTL <= 0 {
		return
	}
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[K]entry[V])
	}
	m.items[key] = entry[V]{expiresAt: now.Add(m.TTL), value: value}

	if m.MaxItems > 0 && len(m.items) > m.MaxItems {
		for k, e := range m.items {
			if now.After(e.expiresAt) {
				delete(m.items, k)
			}
			if len(m.items) <= m.MaxItems {
				return
			}
		}
		for k := range m.items {
			if len(m.items) <= m.MaxItems {
				return
			}
			delete(m.items, k)
		}
	}
}

// Len reports the number of entries currently held, expired or not.
func (m *TTLMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
