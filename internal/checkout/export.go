package checkout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjod/go_storefront/internal/domain"
)

// ExportReceipt writes the receipt as indented JSON into dir, named after the
// transaction id. Export is fire-and-forget: a failure here has no effect on
// the committed transaction.
func ExportReceipt(receipt *domain.Receipt, dir string) (string, error) {
	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal receipt: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("receipt_%s.json", receipt.TransactionID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return path, nil
}
