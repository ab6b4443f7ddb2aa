package models

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockMovementModel is the persistence model for a stock ledger entry.
// ReversalOf is derived from the reversal note; a unique (tenant_id, reversal_of)
// index allows a movement to be reversed once.
type StockMovementModel struct {
	TenantAggregateModel
	ProductID  uuid.UUID              `gorm:"type:uuid;not null;index"`
	Quantity   int                    `gorm:"not null"`
	Type       inventory.MovementType `gorm:"type:varchar(40);not null"`
	Notes      string                 `gorm:"type:text"`
	CostPrice  *decimal.Decimal       `gorm:"type:decimal(12,2)"`
	ReversalOf *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		Type:                m.Type,
		Notes:               m.Notes,
		CostPrice:           m.CostPrice,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		ProductID: mv.ProductID,
		Quantity:  mv.Quantity,
		Type:      mv.Type,
		Notes:     mv.Notes,
		CostPrice: mv.CostPrice,
	}
	m.FromDomainTenantAggregateRoot(mv.TenantAggregateRoot)
	if mv.Type == inventory.MovementReversal {
		if original, ok := inventory.ReversedMovementID(mv.Notes); ok {
			m.ReversalOf = &original
		}
	}
	return m
}
