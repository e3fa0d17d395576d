package shop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/present"
)

// Session drives the interactive shopping flow against a Presenter. It is
// the only place that talks to the presentation layer; the services below it
// just return values and errors.
type Session struct {
	cart      *cart.Service
	checkout  *checkout.Service
	presenter present.Presenter
	exportDir string
}

func NewSession(cartSvc *cart.Service, checkoutSvc *checkout.Service, presenter present.Presenter, exportDir string) *Session {
	return &Session{
		cart:      cartSvc,
		checkout:  checkoutSvc,
		presenter: presenter,
		exportDir: exportDir,
	}
}

// AddToCart adds one unit of the product and reports the outcome.
func (s *Session) AddToCart(ctx context.Context, productID string, qty int) {
	_, err := s.cart.AddItem(ctx, productID, qty)
	if err == nil {
		s.presenter.Notify(present.KindInfo, "Added to cart", "")
		return
	}

	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		s.presenter.Notify(present.KindWarning, "Insufficient stock",
			fmt.Sprintf("Only %d units left.", stockErr.Remaining))
	case errors.Is(err, domain.ErrProductNotFound):
		s.presenter.Notify(present.KindError, "Error", "Product not found")
	default:
		log.Printf("add to cart failed: %v", err)
		s.presenter.Notify(present.KindError, "Error", "Could not update the cart.")
	}
}

// ViewCart shows the cart summary and offers to pay. Returns whether a
// checkout was committed.
func (s *Session) ViewCart(ctx context.Context) bool {
	currentCart, err := s.cart.Get(ctx)
	if err != nil {
		log.Printf("load cart failed: %v", err)
		s.presenter.Notify(present.KindError, "Error", "Could not load the cart.")
		return false
	}
	if currentCart.IsEmpty() {
		s.presenter.Notify(present.KindInfo, "Empty cart", "Add products before viewing the cart.")
		return false
	}

	var summary strings.Builder
	for _, line := range currentCart.Lines {
		fmt.Fprintf(&summary, "%s x%d ($%.2f each)\n", line.Snapshot.Title, line.Quantity, line.Snapshot.Price)
	}

	if !s.presenter.Confirm("Your cart", summary.String(), "Pay", "Keep shopping") {
		return false
	}
	return s.Checkout(ctx)
}

// Checkout collects customer details and runs the workflow. Declining the
// prompt cancels with no side effects; nothing has been committed yet.
func (s *Session) Checkout(ctx context.Context) bool {
	customer, ok := s.presenter.PromptCustomer()
	if !ok {
		return false
	}

	receipt, err := s.checkout.Checkout(ctx, customer)
	if err != nil {
		s.reportCheckoutError(err)
		return false
	}

	body := fmt.Sprintf("Thanks, %s. Transaction ID: %s. Total: $%.2f",
		receipt.Customer.Name, receipt.TransactionID, receipt.Total)
	if s.presenter.Confirm("Purchase complete", body, "Download receipt", "Close") {
		s.exportReceipt(receipt)
	}
	return true
}

func (s *Session) reportCheckoutError(err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		s.presenter.Notify(present.KindInfo, "Empty cart", "Add products before paying.")
	case errors.Is(err, domain.ErrMissingCustomerInfo):
		s.presenter.Notify(present.KindWarning, "Missing details", "Name and email are required.")
	case errors.As(err, &stockErr):
		s.presenter.Notify(present.KindError, "Insufficient stock",
			fmt.Sprintf("Check the cart: only %d units of %s left.", stockErr.Remaining, stockErr.ProductID))
	default:
		log.Printf("checkout failed: %v", err)
		s.presenter.Notify(present.KindError, "Error", "Checkout failed.")
	}
}

// exportReceipt is fire-and-forget: a failed download never touches the
// committed transaction.
func (s *Session) exportReceipt(receipt *domain.Receipt) {
	path, err := checkout.ExportReceipt(receipt, s.exportDir)
	if err != nil {
		log.Printf("receipt export failed: %v", err)
		s.presenter.Notify(present.KindWarning, "Export failed", "The receipt could not be saved.")
		return
	}
	s.presenter.Notify(present.KindInfo, "Receipt saved", path)
}
