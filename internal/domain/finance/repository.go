package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// ReceivableRepository defines the interface for receivable persistence.
// Loaded receivables always carry their installments ordered by number.
type ReceivableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountReceivable, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*AccountReceivable, error)

	// ExistsByProductionOrderID backs the once-per-order guard of receivable generation
	ExistsByProductionOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountReceivable, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a receivable with its installments.
	// A second receivable for the same production order yields shared.ErrConflict.
	Save(ctx context.Context, ar *AccountReceivable) error

	// MarkOverdue moves pending and partially paid receivables due before now to overdue
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error)
}

// PayableRepository defines the interface for payable persistence
type PayableRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountPayable, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ap *AccountPayable) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// MarkOverdue moves pending and partially paid payables due before now to overdue
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error)
}

// PaymentTermRepository defines the interface for payment term configuration
type PaymentTermRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentTerm, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]PaymentTerm, error)
	Save(ctx context.Context, term *PaymentTerm) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
