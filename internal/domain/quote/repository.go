package quote

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for quote persistence.
// Loaded quotes always carry their items and resolved Status.
type QuoteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindByIDForUpdate loads the quote holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save writes the header and items; items no longer on the quote are deleted
	Save(ctx context.Context, q *Quote) error
}

// StatusRepository defines the interface for the quote status catalog
type StatusRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Status, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Status, error)

	// FindDefault returns the status flagged default, else the lowest sort order
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Status, error)

	Save(ctx context.Context, status *Status) error
}
