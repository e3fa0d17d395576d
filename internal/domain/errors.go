package domain

import (
	"errors"
	"fmt"
)

// Common errors returned by the storefront core. All of them are recoverable
// at the operation boundary: state prior to the failed call is unchanged.
var (
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrMissingCustomerInfo = errors.New("customer name and email are required")
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
)

// InsufficientStockError carries the remaining stock so callers can tell the
// user how many units are still available. errors.Is matches it against
// ErrInsufficientStock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, %d remaining", e.ProductID, e.Requested, e.Remaining)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
