package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService *cart.Service
	timeout     time.Duration
}

func NewCartHandler(cartService *cart.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		timeout:     timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartResponseDTO struct {
	Lines      []domain.CartLine `json:"lines"`
	TotalUnits int               `json:"total_units"`
}

func cartResponse(c *domain.Cart) CartResponseDTO {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponseDTO{Lines: lines, TotalUnits: c.TotalUnits()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	currentCart, err := h.cartService.Get(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(currentCart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	currentCart, err := h.cartService.AddItem(ctx, req.ProductID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(currentCart))
}

func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	currentCart, err := h.cartService.DecreaseItem(ctx, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(currentCart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	currentCart, err := h.cartService.RemoveItem(ctx, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(currentCart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	currentCart, err := h.cartService.Clear(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(currentCart))
}

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
