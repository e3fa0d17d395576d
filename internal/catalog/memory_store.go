package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// MemoryStore implements Store with in-memory storage. The process holds one
// coherent catalog for its lifetime; Replace is the only refetch path.
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int // productID -> position in products
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// Replace swaps the whole product list.
func (s *MemoryStore) Replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]domain.Product, len(products))
	copy(s.products, products)
	s.index = make(map[string]int, len(products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

// Products returns a copy of all products in catalog order.
func (s *MemoryStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, len(s.products))
	copy(result, s.products)
	return result
}

// FindByID returns the product and whether it exists.
func (s *MemoryStore) FindByID(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.index[id]
	if !exists {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// DecrementStock reduces stock in place and returns the updated product.
func (s *MemoryStore) DecrementStock(id string, qty int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[id]
	if !exists {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if qty > s.products[i].Stock {
		return domain.Product{}, &domain.InsufficientStockError{
			ProductID: id,
			Requested: qty,
			Remaining: s.products[i].Stock,
		}
	}
	s.products[i].Stock -= qty
	return s.products[i], nil
}

// Filter returns products whose title contains query, optionally price-sorted.
func (s *MemoryStore) Filter(query string, order SortOrder) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if query == "" || strings.Contains(strings.ToLower(p.Title), query) {
			result = append(result, p)
		}
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	}
	return result
}
