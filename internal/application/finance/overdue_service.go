package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants a background sweep iterates over
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OverdueService moves unpaid accounts past their due date to overdue
type OverdueService struct {
	receivables finance.ReceivableRepository
	payables    finance.PayableRepository
	tenants     TenantProvider
	logger      *zap.Logger
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(receivables finance.ReceivableRepository, payables finance.PayableRepository, tenants TenantProvider, logger *zap.Logger) *OverdueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueService{receivables: receivables, payables: payables, tenants: tenants, logger: logger}
}

// MarkOverdue sweeps one tenant
func (s *OverdueService) MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (OverdueResult, error) {
	var result OverdueResult
	n, err := s.receivables.MarkOverdue(ctx, tenantID, now)
	if err != nil {
		return result, fmt.Errorf("failed to mark receivables overdue: %w", err)
	}
	result.Receivables = n

	n, err = s.payables.MarkOverdue(ctx, tenantID, now)
	if err != nil {
		return result, fmt.Errorf("failed to mark payables overdue: %w", err)
	}
	result.Payables = n
	return result, nil
}

// MarkOverdueAllTenants sweeps every active tenant. A failing tenant does not
// stop the sweep; the joined errors are returned at the end.
func (s *OverdueService) MarkOverdueAllTenants(ctx context.Context, now time.Time) (OverdueResult, error) {
	var total OverdueResult
	if s.tenants == nil {
		return total, errors.New("tenant provider is not configured")
	}
	tenantIDs, err := s.tenants.GetActiveTenantIDs(ctx)
	if err != nil {
		return total, fmt.Errorf("failed to list tenants: %w", err)
	}

	var errs []error
	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := s.MarkOverdue(ctx, tenantID, now)
		total.Receivables += result.Receivables
		total.Payables += result.Payables
		if err != nil {
			s.logger.Error("overdue sweep failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			errs = append(errs, err)
		}
	}

	s.logger.Info("overdue sweep finished",
		zap.Int("tenants", len(tenantIDs)),
		zap.Int64("receivables", total.Receivables),
		zap.Int64("payables", total.Payables))
	return total, errors.Join(errs...)
}
