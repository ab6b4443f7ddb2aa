package finance

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeAccountReceivable = "AccountReceivable"
	AggregateTypeAccountPayable    = "AccountPayable"
)

// Event type constants
const (
	EventTypeReceivableGenerated      = "ReceivableGenerated"
	EventTypeAccountPaymentRegistered = "AccountPaymentRegistered"
)

// ReceivableGeneratedEvent is published when a completed order produces a receivable
type ReceivableGeneratedEvent struct {
	shared.BaseDomainEvent
	ReceivableID      uuid.UUID       `json:"receivable_id"`
	ProductionOrderID uuid.UUID       `json:"production_order_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Installments      int             `json:"installments"`
}

func NewReceivableGeneratedEvent(ar *AccountReceivable) *ReceivableGeneratedEvent {
	e := &ReceivableGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableGenerated, AggregateTypeAccountReceivable, ar.ID, ar.TenantID),
		ReceivableID:    ar.ID,
		TotalAmount:     ar.TotalAmount,
		Installments:    len(ar.Installments),
	}
	if ar.ProductionOrderID != nil {
		e.ProductionOrderID = *ar.ProductionOrderID
	}
	return e
}

// AccountPaymentRegisteredEvent is published for every payment on a receivable or payable
type AccountPaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	NewStatus AccountStatus   `json:"new_status"`
}

func NewAccountPaymentRegisteredEvent(aggType string, accountID, tenantID uuid.UUID, amount decimal.Decimal, status AccountStatus) *AccountPaymentRegisteredEvent {
	return &AccountPaymentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountPaymentRegistered, aggType, accountID, tenantID),
		AccountID:       accountID,
		Amount:          amount,
		NewStatus:       status,
	}
}
