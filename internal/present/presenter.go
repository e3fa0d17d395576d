package present

import "github.com/fjod/go_storefront/internal/domain"

// Kind classifies a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Presenter is the boundary to whatever renders the storefront. The core
// works against any implementation, including non-interactive test doubles
// that return fixed answers.
type Presenter interface {
	// Notify shows a one-way message
	Notify(kind Kind, title, message string)

	// Confirm asks a yes/no question and returns the user's choice
	Confirm(title, body, confirmLabel, cancelLabel string) bool

	// PromptCustomer collects checkout details; ok is false when cancelled
	PromptCustomer() (customer domain.Customer, ok bool)
}
