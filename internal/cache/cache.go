package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

// CartCache holds a read-through copy of the persisted cart.
type CartCache interface {
	Get(ctx context.Context) (*domain.Cart, error)
	Set(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
