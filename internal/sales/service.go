package sales

import (
	"context"
	"log"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
)

// Service is the append-only sales log. Receipts are never updated or
// deleted once appended.
type Service struct {
	repo repository.SalesRepository
}

func NewService(repo repository.SalesRepository) *Service {
	return &Service{repo: repo}
}

// Append persists the receipt at the end of the log.
func (s *Service) Append(ctx context.Context, receipt *domain.Receipt) error {
	if err := s.repo.AppendReceipt(ctx, receipt); err != nil {
		log.Printf("repo append receipt error: %v \n", err)
		return err
	}
	return nil
}

// All returns the full receipt history in append (= chronological) order.
func (s *Service) All(ctx context.Context) ([]domain.Receipt, error) {
	return s.repo.AllReceipts(ctx)
}
