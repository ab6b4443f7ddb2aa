package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
)

// PaymentTermService manages the payment term catalog
type PaymentTermService struct {
	repo finance.PaymentTermRepository
}

// NewPaymentTermService creates a new PaymentTermService
func NewPaymentTermService(repo finance.PaymentTermRepository) *PaymentTermService {
	return &PaymentTermService{repo: repo}
}

// Create adds a payment term
func (s *PaymentTermService) Create(ctx context.Context, tenantID uuid.UUID, req PaymentTermRequest) (*PaymentTermResponse, error) {
	term, err := finance.NewPaymentTerm(tenantID, req.Name, req.NumberOfInstallments, req.DaysForFirstInstallment, req.DaysBetweenInstallments)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, term); err != nil {
		return nil, err
	}
	resp := ToPaymentTermResponse(term)
	return &resp, nil
}

// GetByID returns a payment term
func (s *PaymentTermService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentTermResponse, error) {
	term, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentTermResponse(term)
	return &resp, nil
}

// List returns every payment term of the tenant
func (s *PaymentTermService) List(ctx context.Context, tenantID uuid.UUID) ([]PaymentTermResponse, error) {
	terms, err := s.repo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentTermResponse, len(terms))
	for i := range terms {
		out[i] = ToPaymentTermResponse(&terms[i])
	}
	return out, nil
}

// Update changes a term. Receivables already generated keep their schedule.
func (s *PaymentTermService) Update(ctx context.Context, tenantID, id uuid.UUID, req PaymentTermRequest) (*PaymentTermResponse, error) {
	term, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := term.Update(req.Name, req.NumberOfInstallments, req.DaysForFirstInstallment, req.DaysBetweenInstallments); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, term); err != nil {
		return nil, err
	}
	resp := ToPaymentTermResponse(term)
	return &resp, nil
}

// Delete removes a term
func (s *PaymentTermService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}
