package catalog

import (
	"github.com/fjod/go_storefront/internal/domain"
)

// SortOrder controls price ordering in Filter.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// Store defines the interface for catalog storage operations.
type Store interface {
	// Replace swaps the whole product list (initial load and reloads)
	Replace(products []domain.Product)

	// Products returns all products in catalog order
	Products() []domain.Product

	// FindByID returns the product and whether it exists; absence is not an error
	FindByID(id string) (domain.Product, bool)

	// DecrementStock is the only stock-mutating operation.
	// Fails with InsufficientStockError if qty exceeds current stock.
	DecrementStock(id string, qty int) (domain.Product, error)

	// Filter returns products whose title contains query (case-insensitive),
	// optionally sorted by price
	Filter(query string, order SortOrder) []domain.Product
}
