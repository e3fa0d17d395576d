package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// Loader fetches the product collection from its external source. A failed
// load leaves the target store untouched; retries only happen when the user
// asks for a reload.
type Loader struct {
	client *http.Client
	url    string
}

// NewLoader creates a loader for the given catalog URL.
func NewLoader(url string, timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Load fetches and decodes the product list. Transport failures, non-2xx
// responses and malformed payloads all surface as ErrCatalogUnavailable.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: decoding products: %v", domain.ErrCatalogUnavailable, err)
	}
	return products, nil
}

// LoadInto fetches the product list and replaces the store contents on
// success. On failure the store keeps whatever it had.
func (l *Loader) LoadInto(ctx context.Context, store Store) error {
	products, err := l.Load(ctx)
	if err != nil {
		return err
	}
	store.Replace(products)
	return nil
}
