package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fjod/go_storefront/internal/domain"
)

// AppendReceipt reads the persisted sales collection, appends the receipt and
// rewrites the collection in full. The sales log is write-once per entry.
func (r *Repository) AppendReceipt(ctx context.Context, receipt *domain.Receipt) error {
	receipts, err := r.AllReceipts(ctx)
	if err != nil {
		return err
	}

	receipts = append(receipts, *receipt)
	raw, err := json.Marshal(receipts)
	if err != nil {
		return fmt.Errorf("failed to marshal sales: %w", err)
	}
	return r.setValue(ctx, salesKey, string(raw))
}

// AllReceipts returns the full ordered receipt history.
func (r *Repository) AllReceipts(ctx context.Context) ([]domain.Receipt, error) {
	raw, exists, err := r.getValue(ctx, salesKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []domain.Receipt{}, nil
	}

	var receipts []domain.Receipt
	if err := json.Unmarshal([]byte(raw), &receipts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sales: %w", err)
	}
	return receipts, nil
}

// UnpublishedReceipts returns up to limit receipts past the publish cursor,
// oldest first. Append order doubles as chronological order.
func (r *Repository) UnpublishedReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	receipts, err := r.AllReceipts(ctx)
	if err != nil {
		return nil, err
	}
	cursor, err := r.salesCursor(ctx)
	if err != nil {
		return nil, err
	}
	if cursor >= len(receipts) {
		return nil, nil
	}

	pending := receipts[cursor:]
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkReceiptPublished advances the publish cursor past the given receipt.
// The acknowledged receipt must be the next unpublished one; publishing is
// strictly in append order.
func (r *Repository) MarkReceiptPublished(ctx context.Context, transactionID string) error {
	receipts, err := r.AllReceipts(ctx)
	if err != nil {
		return err
	}
	cursor, err := r.salesCursor(ctx)
	if err != nil {
		return err
	}
	if cursor >= len(receipts) || receipts[cursor].TransactionID != transactionID {
		return fmt.Errorf("%w: got %s at position %d", ErrCursorOutOfSync, transactionID, cursor)
	}
	return r.setValue(ctx, salesCursorKey, strconv.Itoa(cursor+1))
}

func (r *Repository) salesCursor(ctx context.Context) (int, error) {
	raw, exists, err := r.getValue(ctx, salesCursorKey)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	cursor, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sales cursor: %w", err)
	}
	return cursor, nil
}
