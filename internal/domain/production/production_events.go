package production

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProductionOrder = "ProductionOrder"

// Event type constants
const (
	EventTypeProductionOrderCreated       = "ProductionOrderCreated"
	EventTypeProductionOrderStatusChanged = "ProductionOrderStatusChanged"
	EventTypeProductionStarted            = "ProductionStarted"
	EventTypeProductionOrderCompleted     = "ProductionOrderCompleted"
)

// ProductionOrderCreatedEvent is published when an approved quote gets its order
type ProductionOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	InternalID int64     `json:"internal_id"`
	QuoteID    uuid.UUID `json:"quote_id"`
}

func NewProductionOrderCreatedEvent(o *ProductionOrder) *ProductionOrderCreatedEvent {
	return &ProductionOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCreated, AggregateTypeProductionOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		InternalID:      o.InternalID,
		QuoteID:         o.QuoteID,
	}
}

// ProductionOrderStatusChangedEvent is published on every status change
type ProductionOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID  `json:"order_id"`
	OldStatusID uuid.UUID  `json:"old_status_id"`
	NewStatusID uuid.UUID  `json:"new_status_id"`
	OldRole     StatusRole `json:"old_role"`
	NewRole     StatusRole `json:"new_role"`
}

func NewProductionOrderStatusChangedEvent(o *ProductionOrder, oldStatusID uuid.UUID, oldRole StatusRole) *ProductionOrderStatusChangedEvent {
	return &ProductionOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderStatusChanged, AggregateTypeProductionOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OldStatusID:     oldStatusID,
		NewStatusID:     o.StatusID,
		OldRole:         oldRole,
		NewRole:         o.Role(),
	}
}

// ProductionStartedEvent is published when an order enters an in-production status.
// It triggers the bill-of-materials deduction.
type ProductionStartedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	InternalID int64     `json:"internal_id"`
	QuoteID    uuid.UUID `json:"quote_id"`
}

func NewProductionStartedEvent(o *ProductionOrder) *ProductionStartedEvent {
	return &ProductionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionStarted, AggregateTypeProductionOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		InternalID:      o.InternalID,
		QuoteID:         o.QuoteID,
	}
}

// ProductionOrderCompletedEvent is published the first time an order is completed.
// It triggers receivable generation.
type ProductionOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	InternalID int64     `json:"internal_id"`
	QuoteID    uuid.UUID `json:"quote_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

func NewProductionOrderCompletedEvent(o *ProductionOrder) *ProductionOrderCompletedEvent {
	return &ProductionOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCompleted, AggregateTypeProductionOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		InternalID:      o.InternalID,
		QuoteID:         o.QuoteID,
		CustomerID:      o.CustomerID,
	}
}
