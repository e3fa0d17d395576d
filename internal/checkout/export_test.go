package checkout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReceipt_WritesNamedJSONFile(t *testing.T) {
	dir := t.TempDir()
	receipt := &domain.Receipt{
		TransactionID: "TX1234",
		Date:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Customer:      domain.Customer{Name: "Ana", Email: "ana@example.com"},
		Items: []domain.ReceiptLine{
			{ProductID: "p1", Title: "Widget", Quantity: 2, Price: 10.00, Subtotal: 20.00},
		},
		Total: 20.00,
	}

	path, err := ExportReceipt(receipt, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipt_TX1234.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded domain.Receipt
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, *receipt, loaded)
}

func TestExportReceipt_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	receipt := &domain.Receipt{TransactionID: "TX1"}

	path, err := ExportReceipt(receipt, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
