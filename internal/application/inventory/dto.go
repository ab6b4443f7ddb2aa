package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest records a manual stock movement. The sign of quantity
// is derived from the type.
type RecordMovementRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,ne=0"`
	Type      string           `json:"type" binding:"required,oneof=initial_entry purchase production_loss manufacturing_defect manual_adjustment_in manual_adjustment_out"`
	Notes     string           `json:"notes" binding:"max=1000"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	CreatedBy uuid.UUID        `json:"-"`
}

// MovementListFilter represents query parameters for a product's ledger
type MovementListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementResponse represents a ledger entry in API responses
type MovementResponse struct {
	ID         uuid.UUID        `json:"id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Quantity   int              `json:"quantity"`
	Type       string           `json:"type"`
	Notes      string           `json:"notes,omitempty"`
	CostPrice  *decimal.Decimal `json:"cost_price,omitempty"`
	ReversalOf *uuid.UUID       `json:"reversal_of,omitempty"`
	CreatedBy  *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// StockResponse is the projected stock of a product
type StockResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	QuantityInStock int             `json:"quantity_in_stock"`
	CostPrice       decimal.Decimal `json:"cost_price"`
}

// ToMovementResponse converts a ledger entry
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Type:      string(m.Type),
		Notes:     m.Notes,
		CostPrice: m.CostPrice,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
	if m.Type == inventory.MovementReversal {
		if id, ok := inventory.ReversedMovementID(m.Notes); ok {
			resp.ReversalOf = &id
		}
	}
	return resp
}
