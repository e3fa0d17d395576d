package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
)

type CheckoutHandler struct {
	checkoutService *checkout.Service
	timeout         time.Duration
}

func NewCheckoutHandler(checkoutService *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		timeout:         timeout,
	}
}

type CheckoutRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Checkout validates and commits the current cart as one purchase.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer := domain.Customer{Name: req.Name, Email: req.Email, Address: req.Address}
	receipt, err := h.checkoutService.Checkout(ctx, customer)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}
