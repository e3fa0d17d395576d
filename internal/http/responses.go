package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_storefront/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleDomainError maps core errors onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "referenced product is not in the catalog")
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "add products before checking out")
	case errors.Is(err, domain.ErrMissingCustomerInfo):
		respondError(w, http.StatusBadRequest, "missing_customer_info", "name and email are required")
	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
