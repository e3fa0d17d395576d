package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/clock"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/sales"
)

var ErrIllegalTransition = fmt.Errorf("illegal transition of checkout status")

// Service runs the checkout workflow:
//
//	IDLE -> VALIDATING -> (COMMITTED | REJECTED) -> IDLE
//
// One transaction is in flight at a time; the mutex queues any second call
// behind the first instead of interleaving.
type Service struct {
	mu      sync.Mutex
	catalog catalog.Store
	cart    *cart.Service
	sales   *sales.Service
	txids   *TxIDSource
	clk     clock.Clock
}

func NewService(catalogStore catalog.Store, cartSvc *cart.Service, salesSvc *sales.Service, clk clock.Clock) *Service {
	return &Service{
		catalog: catalogStore,
		cart:    cartSvc,
		sales:   salesSvc,
		txids:   NewTxIDSource(clk),
		clk:     clk,
	}
}

// Checkout validates the cart against live stock and, on success, decrements
// stock, appends a receipt to the sales log and clears the cart as one
// logical unit. Rejections leave every piece of state unchanged.
func (s *Service) Checkout(ctx context.Context, customer domain.Customer) (*domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := StatusIdle
	if err := advance(&status, StatusValidating); err != nil {
		return nil, err
	}

	currentCart, err := s.cart.Get(ctx)
	if err != nil {
		return nil, err
	}
	if currentCart.IsEmpty() {
		_ = advance(&status, StatusRejected)
		return nil, domain.ErrEmptyCart
	}

	if err := customer.Validate(); err != nil {
		_ = advance(&status, StatusRejected)
		return nil, err
	}

	// Re-check every line against live stock: this process's own earlier
	// checkouts may have consumed units since the items were added.
	for _, line := range currentCart.Lines {
		product, exists := s.catalog.FindByID(line.ProductID)
		if !exists {
			_ = advance(&status, StatusRejected)
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Remaining: 0,
			}
		}
		if line.Quantity > product.Stock {
			_ = advance(&status, StatusRejected)
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Remaining: product.Stock,
			}
		}
	}

	if err := advance(&status, StatusCommitted); err != nil {
		return nil, err
	}

	for _, line := range currentCart.Lines {
		if _, errDec := s.catalog.DecrementStock(line.ProductID, line.Quantity); errDec != nil {
			// Validation confirmed sufficiency and nothing else mutates
			// stock between the phases, so this cannot happen.
			log.Printf("invariant violation: stock decrement failed after validation: %v", errDec)
			return nil, fmt.Errorf("stock decrement failed after validation: %w", errDec)
		}
	}

	receipt := s.buildReceipt(customer, currentCart.Lines)

	if errAppend := s.sales.Append(ctx, receipt); errAppend != nil {
		return nil, fmt.Errorf("failed to append receipt: %w", errAppend)
	}

	if _, errClear := s.cart.Clear(ctx); errClear != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", errClear)
	}

	log.Printf("checkout committed: transaction = %v total = %.2f", receipt.TransactionID, receipt.Total)
	return receipt, nil
}

// buildReceipt derives receipt lines from the live catalog, falling back to
// the add-time snapshot if the product has disappeared.
func (s *Service) buildReceipt(customer domain.Customer, lines []domain.CartLine) *domain.Receipt {
	items := make([]domain.ReceiptLine, len(lines))
	total := 0.0
	for i, line := range lines {
		title, price := line.Snapshot.Title, line.Snapshot.Price
		if product, exists := s.catalog.FindByID(line.ProductID); exists {
			title, price = product.Title, product.Price
		}
		subtotal := price * float64(line.Quantity)
		items[i] = domain.ReceiptLine{
			ProductID: line.ProductID,
			Title:     title,
			Quantity:  line.Quantity,
			Price:     price,
			Subtotal:  subtotal,
		}
		total += subtotal
	}

	return &domain.Receipt{
		TransactionID: s.txids.Next(),
		Date:          s.clk.Now(),
		Customer:      customer,
		Items:         items,
		Total:         total,
	}
}

func advance(status *Status, next Status) error {
	if !CanTransitionTo(*status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, *status, next)
	}
	*status = next
	return nil
}
