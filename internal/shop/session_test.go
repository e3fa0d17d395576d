package shop

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/clock"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/present"
	"github.com/fjod/go_storefront/internal/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPresenter is a non-interactive Presenter returning fixed answers.
type scriptedPresenter struct {
	confirmAnswers []bool
	customer       domain.Customer
	customerOK     bool

	notices  []string
	confirms []string
}

func (p *scriptedPresenter) Notify(kind present.Kind, title, message string) {
	p.notices = append(p.notices, string(kind)+":"+title)
}

func (p *scriptedPresenter) Confirm(title, body, confirmLabel, cancelLabel string) bool {
	p.confirms = append(p.confirms, title)
	if len(p.confirmAnswers) == 0 {
		return false
	}
	answer := p.confirmAnswers[0]
	p.confirmAnswers = p.confirmAnswers[1:]
	return answer
}

func (p *scriptedPresenter) PromptCustomer() (domain.Customer, bool) {
	return p.customer, p.customerOK
}

type memStore struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	receipts []domain.Receipt
}

func (m *memStore) LoadCart(context.Context) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]domain.CartLine, len(m.lines))
	copy(lines, m.lines)
	return &domain.Cart{Lines: lines}, nil
}

func (m *memStore) SaveCart(_ context.Context, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make([]domain.CartLine, len(c.Lines))
	copy(m.lines, c.Lines)
	return nil
}

func (m *memStore) AppendReceipt(_ context.Context, r *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, *r)
	return nil
}

func (m *memStore) AllReceipts(context.Context) ([]domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receipts, nil
}

func (m *memStore) UnpublishedReceipts(context.Context, int) ([]domain.Receipt, error) {
	return nil, nil
}

func (m *memStore) MarkReceiptPublished(context.Context, string) error {
	return nil
}

func setupSession(t *testing.T, presenter present.Presenter) (*Session, *memStore, *catalog.MemoryStore) {
	t.Helper()
	store := &memStore{}
	catalogStore := catalog.NewMemoryStore()
	catalogStore.Replace([]domain.Product{
		{ID: "p1", Title: "Widget", Price: 10.00, Stock: 5},
		{ID: "p2", Title: "Gadget", Price: 25.50, Stock: 2},
	})
	cartService := cart.NewService(store, cache.NewMemoryCache(), catalogStore)
	checkoutService := checkout.NewService(catalogStore, cartService, sales.NewService(store), clock.NewSystem())
	session := NewSession(cartService, checkoutService, presenter, filepath.Join(t.TempDir(), "receipts"))
	return session, store, catalogStore
}

func TestAddToCart_NotifiesSuccess(t *testing.T) {
	presenter := &scriptedPresenter{}
	session, store, _ := setupSession(t, presenter)

	session.AddToCart(context.Background(), "p1", 1)

	require.Len(t, store.lines, 1)
	assert.Equal(t, []string{"info:Added to cart"}, presenter.notices)
}

func TestAddToCart_WarnsOnInsufficientStock(t *testing.T) {
	presenter := &scriptedPresenter{}
	session, store, _ := setupSession(t, presenter)
	ctx := context.Background()

	session.AddToCart(ctx, "p2", 2)
	session.AddToCart(ctx, "p2", 1)

	assert.Equal(t, 2, store.lines[0].Quantity)
	require.Len(t, presenter.notices, 2)
	assert.Equal(t, "warning:Insufficient stock", presenter.notices[1])
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	presenter := &scriptedPresenter{}
	session, store, _ := setupSession(t, presenter)

	session.AddToCart(context.Background(), "nope", 1)

	assert.Empty(t, store.lines)
	assert.Equal(t, []string{"error:Error"}, presenter.notices)
}

func TestViewCart_EmptyShowsInfoOnly(t *testing.T) {
	presenter := &scriptedPresenter{}
	session, _, _ := setupSession(t, presenter)

	committed := session.ViewCart(context.Background())

	assert.False(t, committed)
	assert.Equal(t, []string{"info:Empty cart"}, presenter.notices)
	assert.Empty(t, presenter.confirms)
}

func TestViewCart_DeclinePaymentKeepsShopping(t *testing.T) {
	presenter := &scriptedPresenter{confirmAnswers: []bool{false}}
	session, store, _ := setupSession(t, presenter)
	ctx := context.Background()

	session.AddToCart(ctx, "p1", 1)
	committed := session.ViewCart(ctx)

	assert.False(t, committed)
	assert.Equal(t, []string{"Your cart"}, presenter.confirms)
	assert.Empty(t, store.receipts)
	require.Len(t, store.lines, 1)
}

func TestCheckout_CancelledPromptHasNoSideEffects(t *testing.T) {
	presenter := &scriptedPresenter{customerOK: false}
	session, store, catalogStore := setupSession(t, presenter)
	ctx := context.Background()

	session.AddToCart(ctx, "p1", 2)
	committed := session.Checkout(ctx)

	assert.False(t, committed)
	assert.Empty(t, store.receipts)
	p, _ := catalogStore.FindByID("p1")
	assert.Equal(t, 5, p.Stock)
	require.Len(t, store.lines, 1)
}

func TestCheckout_CommitsAndExportsReceipt(t *testing.T) {
	presenter := &scriptedPresenter{
		// pay, then download receipt
		confirmAnswers: []bool{true, true},
		customer:       domain.Customer{Name: "Ana", Email: "ana@example.com"},
		customerOK:     true,
	}
	session, store, catalogStore := setupSession(t, presenter)
	ctx := context.Background()

	session.AddToCart(ctx, "p1", 2)
	committed := session.ViewCart(ctx)

	assert.True(t, committed)
	require.Len(t, store.receipts, 1)
	assert.Equal(t, 20.00, store.receipts[0].Total)
	assert.Empty(t, store.lines)

	p, _ := catalogStore.FindByID("p1")
	assert.Equal(t, 3, p.Stock)

	// last notice reports where the receipt was saved
	require.NotEmpty(t, presenter.notices)
	assert.Equal(t, "info:Receipt saved", presenter.notices[len(presenter.notices)-1])
}

func TestCheckout_MissingCustomerInfoKeepsCart(t *testing.T) {
	presenter := &scriptedPresenter{
		customer:   domain.Customer{Name: "", Email: "ana@example.com"},
		customerOK: true,
	}
	session, store, _ := setupSession(t, presenter)
	ctx := context.Background()

	session.AddToCart(ctx, "p1", 1)
	committed := session.Checkout(ctx)

	assert.False(t, committed)
	assert.Empty(t, store.receipts)
	require.Len(t, store.lines, 1)
	assert.Equal(t, "warning:Missing details", presenter.notices[len(presenter.notices)-1])
}

func TestCheckout_EmptyCartIsInformational(t *testing.T) {
	presenter := &scriptedPresenter{customerOK: true, customer: domain.Customer{Name: "Ana", Email: "a@b.c"}}
	session, store, _ := setupSession(t, presenter)

	committed := session.Checkout(context.Background())

	assert.False(t, committed)
	assert.Empty(t, store.receipts)
	assert.Equal(t, []string{"info:Empty cart"}, presenter.notices)
}
