package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// MemoryCache is the in-process fallback used when no redis address is
// configured. Same serialize-on-write semantics as the redis cache so both
// return detached copies.
type MemoryCache struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (m *MemoryCache) Get(_ context.Context) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, ErrCacheMiss
	}
	var cart domain.Cart
	if err := json.Unmarshal(m.data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (m *MemoryCache) Set(_ context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}
