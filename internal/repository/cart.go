package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/fjod/go_storefront/internal/domain"
)

// LoadCart reads the persisted cart. A missing or corrupt payload yields an
// empty cart, never an error: losing a malformed blob is recovery, not
// failure.
func (r *Repository) LoadCart(ctx context.Context) (*domain.Cart, error) {
	raw, exists, err := r.getValue(ctx, cartKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &domain.Cart{}, nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		log.Printf("corrupt cart payload, starting empty: %v", err)
		return &domain.Cart{}, nil
	}
	return &domain.Cart{Lines: lines}, nil
}

// SaveCart serializes and stores the full cart state.
func (r *Repository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return r.setValue(ctx, cartKey, string(raw))
}
