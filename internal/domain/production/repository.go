package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// OrderRepository defines the interface for production order persistence.
// Loaded orders always carry their resolved Status.
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProductionOrder, error)

	// FindByIDForUpdate loads the order holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ProductionOrder, error)

	// FindByQuoteID returns the order of a quote, or shared.ErrNotFound
	FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*ProductionOrder, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductionOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an order. A second order for the same quote yields shared.ErrConflict.
	Save(ctx context.Context, order *ProductionOrder) error

	// NextInternalID allocates the next tenant-scoped sequential number
	NextInternalID(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// StatusRepository defines the interface for the production status catalog
type StatusRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Status, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Status, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Status, error)
	Save(ctx context.Context, status *Status) error
}
