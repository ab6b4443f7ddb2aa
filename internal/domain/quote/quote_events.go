package quote

import (
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteCreated       = "QuoteCreated"
	EventTypeQuoteStatusChanged = "QuoteStatusChanged"
	EventTypeQuoteApproved      = "QuoteApproved"
	EventTypeQuoteCancelled     = "QuoteCancelled"
)

// QuoteCreatedEvent is published when a quote is opened
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID `json:"quote_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		CustomerID:      q.CustomerID,
	}
}

// QuoteStatusChangedEvent is published on every status change
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID `json:"quote_id"`
	OldStatusID uuid.UUID `json:"old_status_id"`
	NewStatusID uuid.UUID `json:"new_status_id"`
}

func NewQuoteStatusChangedEvent(q *Quote, oldStatusID uuid.UUID) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		OldStatusID:     oldStatusID,
		NewStatusID:     q.StatusID,
	}
}

// QuoteApprovedEvent is published when a quote enters an approved status.
// It starts production.
type QuoteApprovedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID       `json:"quote_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func NewQuoteApprovedEvent(q *Quote) *QuoteApprovedEvent {
	return &QuoteApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteApproved, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		CustomerID:      q.CustomerID,
		UserID:          q.UserID,
		TotalAmount:     q.TotalAmount,
	}
}

// QuoteCancelledEvent is published when a quote enters a cancelled status
type QuoteCancelledEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Reason  string    `json:"reason"`
}

func NewQuoteCancelledEvent(q *Quote) *QuoteCancelledEvent {
	return &QuoteCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCancelled, AggregateTypeQuote, q.ID, q.TenantID),
		QuoteID:         q.ID,
		Reason:          q.CancellationReason,
	}
}
