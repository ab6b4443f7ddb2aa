package production

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// ProductionOrder tracks the manufacturing of an approved quote.
// One order exists per quote. CompletedAt, MaterialsDeductedAt and
// StockDeductedAt are each stamped at most once.
type ProductionOrder struct {
	shared.TenantAggregateRoot
	InternalID          int64
	QuoteID             uuid.UUID
	CustomerID          uuid.UUID
	AssignedUserID      *uuid.UUID
	StatusID            uuid.UUID
	Status              *Status
	Notes               string
	CancellationReason  string
	CompletedAt         *time.Time
	MaterialsDeductedAt *time.Time
	StockDeductedAt     *time.Time
}

// NewProductionOrder opens an order for an approved quote
func NewProductionOrder(tenantID uuid.UUID, internalID int64, quoteID, customerID uuid.UUID, status *Status) (*ProductionOrder, error) {
	if quoteID == uuid.Nil {
		return nil, shared.NewValidationError("quote is required")
	}
	if internalID < 1 {
		return nil, shared.NewValidationError("internal id must be positive")
	}
	if status == nil {
		return nil, shared.NewDependencyMissingError("no initial production status configured")
	}
	if status.ResolvedRole().IsTerminal() {
		return nil, shared.NewValidationError("an order cannot be opened in a terminal status")
	}

	o := &ProductionOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InternalID:          internalID,
		QuoteID:             quoteID,
		CustomerID:          customerID,
		StatusID:            status.ID,
		Status:              status,
	}
	o.AddDomainEvent(NewProductionOrderCreatedEvent(o))
	return o, nil
}

// Role returns the resolved role of the current status
func (o *ProductionOrder) Role() StatusRole {
	return o.Status.ResolvedRole()
}

// IsTerminal reports whether the order is completed or cancelled
func (o *ProductionOrder) IsTerminal() bool {
	return o.Role().IsTerminal()
}

// EnsureTransitionable returns Forbidden once the order reached a terminal status
func (o *ProductionOrder) EnsureTransitionable() error {
	if o.IsTerminal() {
		return shared.NewForbiddenError("production order is in a terminal status and cannot change")
	}
	return nil
}

// ChangeStatus moves the order to status. The terminal check runs first;
// entering a cancelled status requires a reason.
func (o *ProductionOrder) ChangeStatus(status *Status, reason string) error {
	if err := o.EnsureTransitionable(); err != nil {
		return err
	}
	if status == nil {
		return shared.NewValidationError("status is required")
	}
	if status.TenantID != o.TenantID {
		return shared.NewNotFoundError("production status", status.ID)
	}
	if status.ID == o.StatusID {
		return nil
	}

	oldRole := o.Role()
	newRole := status.ResolvedRole()

	if newRole == StatusRoleCancelled {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return shared.NewForbiddenError("a cancellation reason is required to cancel a production order")
		}
		o.CancellationReason = reason
	}

	oldStatusID := o.StatusID
	o.StatusID = status.ID
	o.Status = status
	o.IncrementVersion()
	o.AddDomainEvent(NewProductionOrderStatusChangedEvent(o, oldStatusID, oldRole))

	switch newRole {
	case StatusRoleInProduction:
		o.AddDomainEvent(NewProductionStartedEvent(o))
	case StatusRoleCompleted:
		if o.CompletedAt == nil {
			now := time.Now()
			o.CompletedAt = &now
			o.AddDomainEvent(NewProductionOrderCompletedEvent(o))
		}
	}
	return nil
}

// Assign sets the responsible user; uuid.Nil unassigns
func (o *ProductionOrder) Assign(userID uuid.UUID) {
	if userID == uuid.Nil {
		o.AssignedUserID = nil
	} else {
		o.AssignedUserID = &userID
	}
	o.IncrementVersion()
}

// MaterialsDeducted reports whether the bill-of-materials deduction already ran
func (o *ProductionOrder) MaterialsDeducted() bool {
	return o.MaterialsDeductedAt != nil
}

// MarkMaterialsDeducted stamps the bill-of-materials deduction
func (o *ProductionOrder) MarkMaterialsDeducted(at time.Time) error {
	if o.MaterialsDeductedAt != nil {
		return shared.NewConflictError("materials were already deducted for this order")
	}
	o.MaterialsDeductedAt = &at
	o.Touch()
	return nil
}

// StockDeducted reports whether the approval-time deduction already ran
func (o *ProductionOrder) StockDeducted() bool {
	return o.StockDeductedAt != nil
}

// MarkStockDeducted stamps the approval-time deduction of physical products
func (o *ProductionOrder) MarkStockDeducted(at time.Time) error {
	if o.StockDeductedAt != nil {
		return shared.NewConflictError("stock was already deducted for this order")
	}
	o.StockDeductedAt = &at
	o.Touch()
	return nil
}
