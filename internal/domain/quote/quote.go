package quote

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/pricing"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Quote is the aggregate root of a customer quotation.
// Subtotal and TotalAmount are written only by RecalculateTotals.
type Quote struct {
	shared.TenantAggregateRoot
	CustomerID          uuid.UUID
	UserID              uuid.UUID
	StatusID            uuid.UUID
	Status              *Status
	Customer            CustomerSnapshot
	Subtotal            decimal.Decimal
	DiscountPercentage  decimal.Decimal
	TotalAmount         decimal.Decimal
	PaymentMethodID     *uuid.UUID
	PaymentTermID       *uuid.UUID
	DeliveryMethodID    *uuid.UUID
	NegotiationSourceID *uuid.UUID
	DeliveryDate        *time.Time
	Notes               string
	CancellationReason  string
	ApprovedAt          *time.Time
	Items               []QuoteItem
}

// HeaderChanges holds the optional header fields of UpdateHeader
type HeaderChanges struct {
	PaymentMethodID     *uuid.UUID
	PaymentTermID       *uuid.UUID
	DeliveryMethodID    *uuid.UUID
	NegotiationSourceID *uuid.UUID
	Notes               *string
	DiscountPercentage  *decimal.Decimal
	Status              *Status
	CancellationReason  *string
	DeliveryDate        *time.Time
}

// NewQuote creates an empty quote for a customer in the given initial status
func NewQuote(tenantID, customerID, userID uuid.UUID, snapshot CustomerSnapshot, status *Status) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer is required")
	}
	if status == nil {
		return nil, shared.NewValidationError("initial status is required")
	}
	if status.ResolvedRole().IsTerminal() {
		return nil, shared.NewValidationError("a quote cannot be created in a terminal status")
	}

	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		UserID:              userID,
		StatusID:            status.ID,
		Status:              status,
		Customer:            snapshot,
		Subtotal:            decimal.Zero,
		DiscountPercentage:  decimal.Zero,
		TotalAmount:         decimal.Zero,
	}
	q.SetCreatedBy(userID)
	q.AddDomainEvent(NewQuoteCreatedEvent(q))
	return q, nil
}

// Role returns the resolved role of the current status
func (q *Quote) Role() StatusRole {
	return q.Status.ResolvedRole()
}

// IsLocked reports whether the quote reached a terminal status
func (q *Quote) IsLocked() bool {
	return q.Role().IsTerminal()
}

// EnsureUnlocked returns Forbidden when the quote is approved or cancelled
func (q *Quote) EnsureUnlocked() error {
	if q.IsLocked() {
		return shared.NewForbiddenError("quote is locked in a terminal status and cannot be changed")
	}
	return nil
}

// GetItem returns the item with itemID, or nil
func (q *Quote) GetItem(itemID uuid.UUID) *QuoteItem {
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			return &q.Items[i]
		}
	}
	return nil
}

// GetItemByProduct returns the line for productID, or nil
func (q *Quote) GetItemByProduct(productID uuid.UUID) *QuoteItem {
	for i := range q.Items {
		if q.Items[i].ProductID == productID {
			return &q.Items[i]
		}
	}
	return nil
}

// AddItem adds quantity of product. A product already on the quote has its
// line quantity incremented instead of getting a second line.
func (q *Quote) AddItem(product ProductInfo, quantity int) (*QuoteItem, error) {
	if err := q.EnsureUnlocked(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("quantity must be at least 1")
	}

	if existing := q.GetItemByProduct(product.ID); existing != nil {
		existing.Quantity += quantity
		existing.recalculate()
		q.RecalculateTotals()
		return existing, nil
	}

	q.Items = append(q.Items, newQuoteItem(q.ID, product, quantity))
	q.RecalculateTotals()
	return &q.Items[len(q.Items)-1], nil
}

// UpdateItem applies changes to a line and recalculates the quote
func (q *Quote) UpdateItem(itemID uuid.UUID, changes ItemChanges) (*QuoteItem, error) {
	if err := q.EnsureUnlocked(); err != nil {
		return nil, err
	}
	item := q.GetItem(itemID)
	if item == nil {
		return nil, shared.NewNotFoundError("quote item", itemID)
	}
	if err := item.apply(changes); err != nil {
		return nil, err
	}
	q.RecalculateTotals()
	return item, nil
}

// RemoveItem deletes a line and recalculates the quote
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if err := q.EnsureUnlocked(); err != nil {
		return err
	}
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.RecalculateTotals()
			return nil
		}
	}
	return shared.NewNotFoundError("quote item", itemID)
}

// SetItemAttachment records or clears (empty path) the artwork of a line
func (q *Quote) SetItemAttachment(itemID uuid.UUID, path string) error {
	if err := q.EnsureUnlocked(); err != nil {
		return err
	}
	item := q.GetItem(itemID)
	if item == nil {
		return shared.NewNotFoundError("quote item", itemID)
	}
	item.AttachmentPath = path
	item.UpdatedAt = time.Now()
	q.Touch()
	return nil
}

// RecalculateTotals derives Subtotal and TotalAmount from the items
func (q *Quote) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	q.Subtotal = subtotal
	q.TotalAmount = pricing.ApplyDiscount(subtotal, q.DiscountPercentage)
	q.Touch()
}

// UpdateHeader applies header changes. Moving into an approved status raises
// QuoteApproved; moving into a cancelled status requires a reason.
func (q *Quote) UpdateHeader(changes HeaderChanges) error {
	if err := q.EnsureUnlocked(); err != nil {
		return err
	}
	if changes.DiscountPercentage != nil && !pricing.ValidPercentage(*changes.DiscountPercentage) {
		return shared.NewValidationError("discount percentage must be between 0 and 100")
	}
	if changes.Status != nil && changes.Status.TenantID != q.TenantID {
		return shared.NewNotFoundError("quote status", changes.Status.ID)
	}

	var newRole StatusRole
	if changes.Status != nil {
		newRole = changes.Status.ResolvedRole()
		if newRole == StatusRoleCancelled {
			reason := q.CancellationReason
			if changes.CancellationReason != nil {
				reason = strings.TrimSpace(*changes.CancellationReason)
			}
			if reason == "" {
				return shared.NewForbiddenError("a cancellation reason is required to cancel a quote")
			}
			q.CancellationReason = reason
		}
	}

	if changes.PaymentMethodID != nil {
		q.PaymentMethodID = nilIfZero(*changes.PaymentMethodID)
	}
	if changes.PaymentTermID != nil {
		q.PaymentTermID = nilIfZero(*changes.PaymentTermID)
	}
	if changes.DeliveryMethodID != nil {
		q.DeliveryMethodID = nilIfZero(*changes.DeliveryMethodID)
	}
	if changes.NegotiationSourceID != nil {
		q.NegotiationSourceID = nilIfZero(*changes.NegotiationSourceID)
	}
	if changes.Notes != nil {
		q.Notes = *changes.Notes
	}
	if changes.DiscountPercentage != nil {
		q.DiscountPercentage = *changes.DiscountPercentage
	}
	if changes.DeliveryDate != nil {
		d := *changes.DeliveryDate
		q.DeliveryDate = &d
	}
	q.RecalculateTotals()

	if changes.Status != nil && changes.Status.ID != q.StatusID {
		oldStatusID := q.StatusID
		q.StatusID = changes.Status.ID
		q.Status = changes.Status
		q.AddDomainEvent(NewQuoteStatusChangedEvent(q, oldStatusID))

		switch newRole {
		case StatusRoleApproved:
			now := time.Now()
			q.ApprovedAt = &now
			q.AddDomainEvent(NewQuoteApprovedEvent(q))
		case StatusRoleCancelled:
			q.AddDomainEvent(NewQuoteCancelledEvent(q))
		}
	}

	q.IncrementVersion()
	return nil
}

// ItemCount returns the number of lines
func (q *Quote) ItemCount() int {
	return len(q.Items)
}

func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
