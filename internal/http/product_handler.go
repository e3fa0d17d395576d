package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
)

type ProductHandler struct {
	store   catalog.Store
	loader  *catalog.Loader
	timeout time.Duration
}

func NewProductHandler(store catalog.Store, loader *catalog.Loader, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		store:   store,
		loader:  loader,
		timeout: timeout,
	}
}

// List returns the catalog, optionally filtered by ?q= and sorted by
// ?sort=asc|desc on price.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	order := catalog.SortOrder(r.URL.Query().Get("sort"))

	switch order {
	case catalog.SortNone, catalog.SortPriceAsc, catalog.SortPriceDesc:
	default:
		respondError(w, http.StatusBadRequest, "invalid_sort", "sort must be asc or desc")
		return
	}

	respondJSON(w, http.StatusOK, h.store.Filter(query, order))
}

// Reload refetches the product list from the catalog source. This is the
// explicit user-triggered retry path; there is no automatic one.
func (h *ProductHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	if err := h.loader.LoadInto(ctx, h.store); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.store.Products())
}
