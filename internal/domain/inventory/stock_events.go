package inventory

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockMovement = "StockMovement"

// EventTypeStockMovementCreated is published for every ledger entry
const EventTypeStockMovementCreated = "StockMovementCreated"

// StockMovementCreatedEvent triggers the product stock projection
type StockMovementCreatedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID    `json:"movement_id"`
	ProductID  uuid.UUID    `json:"product_id"`
	Quantity   int          `json:"quantity"`
	Type       MovementType `json:"type"`
}

func NewStockMovementCreatedEvent(m *StockMovement) *StockMovementCreatedEvent {
	return &StockMovementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementCreated, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:      m.ID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		Type:            m.Type,
	}
}
