package domain

import "time"

// ReceiptLine is one purchased product. Subtotal is always Price * Quantity.
type ReceiptLine struct {
	ProductID string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"qty"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// Receipt is the immutable record of a completed checkout. Once appended to
// the sales log it is never modified.
type Receipt struct {
	TransactionID string        `json:"transactionId"`
	Date          time.Time     `json:"date"`
	Customer      Customer      `json:"customer"`
	Items         []ReceiptLine `json:"items"`
	Total         float64       `json:"total"`
}
