package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads the product holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDs loads several products, components included; missing ids are skipped
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a product and replaces its components
	Save(ctx context.Context, product *Product) error

	// SaveStockProjection writes only quantity_in_stock and cost_price
	SaveStockProjection(ctx context.Context, product *Product) error

	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
