package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
)

// ReceivableService reads receivables. They are only created by the
// receivable generation handler.
type ReceivableService struct {
	repo finance.ReceivableRepository
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(repo finance.ReceivableRepository) *ReceivableService {
	return &ReceivableService{repo: repo}
}

// GetByID returns a receivable with its installments
func (s *ReceivableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	ar, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// List returns receivables matching the filter
func (s *ReceivableService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]ReceivableResponse, int64, error) {
	f := listFilter(filter)

	items, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ReceivableResponse, len(items))
	for i := range items {
		out[i] = ToReceivableResponse(&items[i])
	}
	return out, total, nil
}
