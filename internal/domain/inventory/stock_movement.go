package inventory

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock ledger entry
type MovementType string

const (
	MovementInitialEntry           MovementType = "initial_entry"
	MovementPurchase               MovementType = "purchase"
	MovementProductionLoss         MovementType = "production_loss"
	MovementManufacturingDefect    MovementType = "manufacturing_defect"
	MovementAdjustmentIn           MovementType = "manual_adjustment_in"
	MovementAdjustmentOut          MovementType = "manual_adjustment_out"
	MovementReversal               MovementType = "reversal"
	MovementDeductionForProduction MovementType = "deduction_for_production"
)

// IsValid reports whether t is a known movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementInitialEntry, MovementPurchase, MovementProductionLoss, MovementManufacturingDefect,
		MovementAdjustmentIn, MovementAdjustmentOut, MovementReversal, MovementDeductionForProduction:
		return true
	}
	return false
}

// IsExit reports whether the type always removes stock
func (t MovementType) IsExit() bool {
	switch t {
	case MovementProductionLoss, MovementManufacturingDefect, MovementAdjustmentOut, MovementDeductionForProduction:
		return true
	}
	return false
}

// CarriesCost reports whether the movement's cost feeds the product cost price
func (t MovementType) CarriesCost() bool {
	return t == MovementPurchase || t == MovementInitialEntry
}

// IsUserCreatable reports whether users may record this type directly.
// Reversals go through NewReversal and deductions are generated by production.
func (t MovementType) IsUserCreatable() bool {
	return t.IsValid() && t != MovementReversal && t != MovementDeductionForProduction
}

const reversalNotePrefix = "Estorno da movimentação #"

var reversalNotePattern = regexp.MustCompile(`Estorno da movimentação #([0-9a-fA-F-]{36})`)

// ReversalNote returns the fixed note that links a reversal to its original
func ReversalNote(originalID uuid.UUID) string {
	return reversalNotePrefix + originalID.String()
}

// ReversedMovementID extracts the reversed movement id from reversal notes
func ReversedMovementID(notes string) (uuid.UUID, bool) {
	m := reversalNotePattern.FindStringSubmatch(notes)
	if m == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(m[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// StockMovement is an append-only ledger entry. Quantity is signed:
// exit types are stored negative, entry types positive.
type StockMovement struct {
	shared.TenantAggregateRoot
	ProductID uuid.UUID
	Quantity  int
	Type      MovementType
	Notes     string
	CostPrice *decimal.Decimal
}

// NewStockMovement builds a ledger entry, normalising the sign of quantity from the type.
func NewStockMovement(tenantID, productID uuid.UUID, quantity int, movementType MovementType, notes string, costPrice *decimal.Decimal) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown movement type %q", movementType))
	}
	if quantity == 0 {
		return nil, shared.NewValidationError("movement quantity cannot be zero")
	}
	if costPrice != nil {
		if !movementType.CarriesCost() {
			return nil, shared.NewValidationError("only purchases and initial entries carry a cost price")
		}
		if costPrice.IsNegative() {
			return nil, shared.NewValidationError("cost price cannot be negative")
		}
	}

	switch {
	case movementType == MovementReversal:
		// sign is the negation chosen by NewReversal
	case movementType.IsExit():
		quantity = -abs(quantity)
	default:
		quantity = abs(quantity)
	}

	m := &StockMovement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Quantity:            quantity,
		Type:                movementType,
		Notes:               strings.TrimSpace(notes),
		CostPrice:           costPrice,
	}
	m.AddDomainEvent(NewStockMovementCreatedEvent(m))
	return m, nil
}

// NewReversal builds the movement cancelling original
func NewReversal(original *StockMovement) (*StockMovement, error) {
	if original.Type == MovementReversal {
		return nil, shared.NewValidationError("a reversal cannot be reversed")
	}
	return NewStockMovement(original.TenantID, original.ProductID, -original.Quantity, MovementReversal, ReversalNote(original.ID), nil)
}

// ProductionDeductionNote returns the note of an automatic bill-of-materials deduction
func ProductionDeductionNote(orderInternalID int64, productName string) string {
	return fmt.Sprintf("Baixa automática pela OP #%d (%s)", orderInternalID, productName)
}

// ApprovalDeductionNote returns the note of the deduction made when a quote is approved
func ApprovalDeductionNote(orderInternalID int64, productName string) string {
	return fmt.Sprintf("Baixa na aprovação do orçamento, OP #%d (%s)", orderInternalID, productName)
}

// OccurredAt returns when the movement was recorded
func (m *StockMovement) OccurredAt() time.Time {
	return m.CreatedAt
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
