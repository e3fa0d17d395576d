package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Service is the cart ledger. Every mutation checks quantities against the
// current catalog stock, completes a full write-through of the cart state
// before returning, and invalidates the cache. The mutex makes each public
// operation non-reentrant: a second call queues behind the first.
type Service struct {
	mu      sync.Mutex
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalog.Store
	sfg     singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, cache cache.CartCache, catalog catalog.Store) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		catalog: catalog,
	}
}

// Get returns the current cart, serving from cache when possible.
func (s *Service) Get(ctx context.Context) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do("cart", func() (interface{}, error) {

		cart, err := s.cache.Get(ctx)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.repo.LoadCart(ctx)
		if errGet != nil {
			return nil, errGet
		}

		// set cache before releasing the flight so a later invalidation
		// cannot be overwritten by a stale fill
		if errSet := s.cache.Set(ctx, cart); errSet != nil {
			log.Printf("cache set error: %v \n", errSet)
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem resolves the product, enforces the stock cap against the quantity
// already in the cart, and upserts the line with an add-time snapshot.
func (s *Service) AddItem(ctx context.Context, productID string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.catalog.FindByID(productID)
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	cart, err := s.repo.LoadCart(ctx)
	if err != nil {
		return nil, err
	}

	line := cart.Find(productID)
	newQty := qty
	if line != nil {
		newQty += line.Quantity
	}
	if newQty > product.Stock {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: newQty,
			Remaining: product.Stock,
		}
	}

	if line != nil {
		line.Quantity = newQty
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: productID,
			Quantity:  newQty,
			Snapshot:  domain.Snapshot{Title: product.Title, Price: product.Price},
		})
	}

	return s.persist(ctx, cart)
}

// DecreaseItem decrements the line quantity by exactly one, floored at zero;
// a line reaching zero is removed. A product not in the cart is a no-op.
func (s *Service) DecreaseItem(ctx context.Context, productID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.LoadCart(ctx)
	if err != nil {
		return nil, err
	}

	line := cart.Find(productID)
	if line == nil {
		return cart, nil
	}

	line.Quantity--
	if line.Quantity <= 0 {
		cart.Remove(productID)
	}

	return s.persist(ctx, cart)
}

// RemoveItem deletes the line unconditionally if present.
func (s *Service) RemoveItem(ctx context.Context, productID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.LoadCart(ctx)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)
	return s.persist(ctx, cart)
}

// Clear empties all lines.
func (s *Service) Clear(ctx context.Context) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := &domain.Cart{Lines: []domain.CartLine{}}
	return s.persist(ctx, cart)
}

// TotalUnits is the sum of all line quantities, shown as the cart badge.
func (s *Service) TotalUnits(ctx context.Context) (int, error) {
	cart, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return cart.TotalUnits(), nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v \n", err)
		return nil, err
	}
	s.invalidateCache()
	return cart, nil
}

func (s *Service) invalidateCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
