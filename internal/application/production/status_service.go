package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
)

// StatusService manages the tenant's production status catalog
type StatusService struct {
	statusRepo production.StatusRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(statusRepo production.StatusRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo}
}

// List returns the catalog ordered by sort order
func (s *StatusService) List(ctx context.Context, tenantID uuid.UUID) ([]StatusResponse, error) {
	statuses, err := s.statusRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]StatusResponse, len(statuses))
	for i := range statuses {
		out[i] = ToStatusResponse(&statuses[i])
	}
	return out, nil
}

// Create adds a status to the catalog
func (s *StatusService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStatusRequest) (*StatusResponse, error) {
	status, err := production.NewStatus(tenantID, req.Name, req.Color, req.SortOrder, production.StatusRole(req.Role))
	if err != nil {
		return nil, err
	}
	status.IsDefault = req.IsDefault
	if err := s.statusRepo.Save(ctx, status); err != nil {
		return nil, err
	}
	resp := ToStatusResponse(status)
	return &resp, nil
}

// SeedDefaults creates the default catalog when the tenant has none
func (s *StatusService) SeedDefaults(ctx context.Context, tenantID uuid.UUID) error {
	existing, err := s.statusRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, status := range production.DefaultStatuses(tenantID) {
		if err := s.statusRepo.Save(ctx, status); err != nil {
			return err
		}
	}
	return nil
}
