package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/sales"
)

type SalesHandler struct {
	salesService *sales.Service
	timeout      time.Duration
}

func NewSalesHandler(salesService *sales.Service, timeout time.Duration) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
		timeout:      timeout,
	}
}

// List returns the full receipt history in append order.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	receipts, err := h.salesService.All(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipts)
}
