package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// MovementRepository defines the interface for the append-only stock ledger
type MovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)

	// FindAllByProduct returns every movement of a product, oldest first
	FindAllByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockMovement, error)

	// FindByProduct returns a page of movements, newest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)

	// HasReversal reports whether a reversal referencing movementID exists
	HasReversal(ctx context.Context, tenantID, movementID uuid.UUID) (bool, error)
}
