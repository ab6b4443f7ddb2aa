package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// PayableService manages supplier payables
type PayableService struct {
	repo   finance.PayableRepository
	logger *zap.Logger
}

// NewPayableService creates a new PayableService
func NewPayableService(repo finance.PayableRepository, logger *zap.Logger) *PayableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayableService{repo: repo, logger: logger}
}

// Create registers a new pending payable
func (s *PayableService) Create(ctx context.Context, tenantID uuid.UUID, req PayableRequest) (*PayableResponse, error) {
	ap, err := finance.NewAccountPayable(tenantID, req.input())
	if err != nil {
		return nil, err
	}
	ap.SetCreatedBy(req.CreatedBy)
	if err := s.repo.Save(ctx, ap); err != nil {
		return nil, err
	}

	s.logger.Info("payable created",
		zap.String("payable_id", ap.ID.String()),
		zap.String("supplier", ap.Supplier),
		zap.String("amount", ap.TotalAmount.String()))
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// GetByID returns a payable
func (s *PayableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	ap, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// List returns payables matching the filter
func (s *PayableService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]PayableResponse, int64, error) {
	f := listFilter(filter)
	delete(f.Filters, "customer_id")

	items, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]PayableResponse, len(items))
	for i := range items {
		out[i] = ToPayableResponse(&items[i])
	}
	return out, total, nil
}

// Update replaces the editable fields of an unpaid payable
func (s *PayableService) Update(ctx context.Context, tenantID, id uuid.UUID, req PayableRequest) (*PayableResponse, error) {
	ap, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := ap.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ap); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// Delete removes a payable
func (s *PayableService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}
