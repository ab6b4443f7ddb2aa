package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountPayable is money owed to a supplier. It is maintained manually.
type AccountPayable struct {
	shared.TenantAggregateRoot
	Supplier    string
	Description string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	DueDate     time.Time
	PaidAt      *time.Time
	Status      AccountStatus
	Notes       string
}

// PayableInput carries the editable payable fields
type PayableInput struct {
	Supplier    string
	Description string
	TotalAmount decimal.Decimal
	DueDate     time.Time
	Notes       string
}

// NewAccountPayable creates a pending payable
func NewAccountPayable(tenantID uuid.UUID, input PayableInput) (*AccountPayable, error) {
	ap := &AccountPayable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaidAmount:          decimal.Zero,
		Status:              AccountStatusPending,
	}
	if err := ap.apply(input); err != nil {
		return nil, err
	}
	return ap, nil
}

// Update replaces the editable fields. A paid payable cannot be edited.
func (ap *AccountPayable) Update(input PayableInput) error {
	if ap.Status == AccountStatusPaid {
		return shared.NewForbiddenError("a paid account cannot be edited")
	}
	if err := ap.apply(input); err != nil {
		return err
	}
	if ap.PaidAmount.IsPositive() && ap.PaidAmount.GreaterThanOrEqual(ap.TotalAmount) {
		now := time.Now()
		ap.Status = AccountStatusPaid
		ap.PaidAt = &now
	}
	ap.IncrementVersion()
	return nil
}

// RegisterPayment records a payment on the payable
func (ap *AccountPayable) RegisterPayment(amount decimal.Decimal, paidAt time.Time) error {
	status, err := applyPayment(ap.Status, ap.TotalAmount, &ap.PaidAmount, amount)
	if err != nil {
		return err
	}
	ap.Status = status
	if status == AccountStatusPaid {
		ap.PaidAt = &paidAt
	}
	ap.IncrementVersion()
	ap.AddDomainEvent(NewAccountPaymentRegisteredEvent(AggregateTypeAccountPayable, ap.ID, ap.TenantID, amount, ap.Status))
	return nil
}

// MarkOverdue moves an unpaid payable past its due date to overdue
func (ap *AccountPayable) MarkOverdue(now time.Time) bool {
	if !ap.Status.CanBecomeOverdue() || !ap.DueDate.Before(now) {
		return false
	}
	ap.Status = AccountStatusOverdue
	ap.Touch()
	return true
}

// OutstandingAmount returns total minus paid, never negative
func (ap *AccountPayable) OutstandingAmount() decimal.Decimal {
	return outstanding(ap.TotalAmount, ap.PaidAmount)
}

func (ap *AccountPayable) apply(input PayableInput) error {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return shared.NewValidationError("description cannot be empty")
	}
	if !input.TotalAmount.IsPositive() {
		return shared.NewValidationError("total amount must be positive")
	}
	if input.DueDate.IsZero() {
		return shared.NewValidationError("due date is required")
	}
	ap.Supplier = strings.TrimSpace(input.Supplier)
	ap.Description = description
	ap.TotalAmount = input.TotalAmount
	ap.DueDate = input.DueDate
	ap.Notes = input.Notes
	return nil
}
