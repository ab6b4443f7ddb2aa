package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivableInstallment is one scheduled part of a receivable
type ReceivableInstallment struct {
	ID                uuid.UUID
	ReceivableID      uuid.UUID
	InstallmentNumber int
	Amount            decimal.Decimal
	DueDate           time.Time
	PaidAt            *time.Time
	Status            InstallmentStatus
}

// IsPaid reports whether the installment was settled
func (i *ReceivableInstallment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// AccountReceivable is money owed by a customer, generated when production completes.
// At most one receivable exists per production order.
type AccountReceivable struct {
	shared.TenantAggregateRoot
	QuoteID           *uuid.UUID
	CustomerID        *uuid.UUID
	ProductionOrderID *uuid.UUID
	Description       string
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	DueDate           time.Time
	PaidAt            *time.Time
	Status            AccountStatus
	Installments      []ReceivableInstallment
}

// ReceivableSource identifies the completed order a receivable is generated for
type ReceivableSource struct {
	ProductionOrderID uuid.UUID
	OrderInternalID   int64
	QuoteID           uuid.UUID
	CustomerID        uuid.UUID
}

// NewReceivableFromProduction generates the receivable of a completed order
// using the quote total and payment term.
func NewReceivableFromProduction(tenantID uuid.UUID, source ReceivableSource, total decimal.Decimal, term PaymentTerm, now time.Time) (*AccountReceivable, error) {
	if source.ProductionOrderID == uuid.Nil {
		return nil, shared.NewValidationError("production order is required")
	}
	if total.IsNegative() {
		return nil, shared.NewValidationError("receivable total cannot be negative")
	}

	schedule := GenerateSchedule(total, term, now)
	orderID, quoteID, customerID := source.ProductionOrderID, source.QuoteID, source.CustomerID

	ar := &AccountReceivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuoteID:             &quoteID,
		CustomerID:          &customerID,
		ProductionOrderID:   &orderID,
		Description:         fmt.Sprintf("OP #%d - %s", source.OrderInternalID, term.Name),
		TotalAmount:         total,
		PaidAmount:          decimal.Zero,
		DueDate:             schedule.FirstDueDate,
		Status:              AccountStatusPending,
	}
	for _, planned := range schedule.Installments {
		ar.Installments = append(ar.Installments, ReceivableInstallment{
			ID:                uuid.New(),
			ReceivableID:      ar.ID,
			InstallmentNumber: planned.Number,
			Amount:            planned.Amount,
			DueDate:           planned.DueDate,
			Status:            InstallmentStatusPending,
		})
	}
	ar.AddDomainEvent(NewReceivableGeneratedEvent(ar))
	return ar, nil
}

// GetInstallment returns the installment with id, or nil
func (ar *AccountReceivable) GetInstallment(id uuid.UUID) *ReceivableInstallment {
	for i := range ar.Installments {
		if ar.Installments[i].ID == id {
			return &ar.Installments[i]
		}
	}
	return nil
}

// RegisterInstallmentPayment settles one installment and rolls the amount up
// into the receivable, which becomes paid once every installment is paid.
func (ar *AccountReceivable) RegisterInstallmentPayment(installmentID uuid.UUID, paidAt time.Time) (*ReceivableInstallment, error) {
	if ar.Status == AccountStatusPaid {
		return nil, shared.NewConflictError("account is already paid")
	}
	inst := ar.GetInstallment(installmentID)
	if inst == nil {
		return nil, shared.NewNotFoundError("installment", installmentID)
	}
	if inst.IsPaid() {
		return nil, shared.NewConflictError(fmt.Sprintf("installment %d is already paid", inst.InstallmentNumber))
	}

	inst.Status = InstallmentStatusPaid
	inst.PaidAt = &paidAt
	ar.PaidAmount = ar.PaidAmount.Add(inst.Amount)

	allPaid := true
	for i := range ar.Installments {
		if !ar.Installments[i].IsPaid() {
			allPaid = false
			break
		}
	}
	if allPaid {
		ar.Status = AccountStatusPaid
		ar.PaidAt = &paidAt
	} else {
		ar.Status = AccountStatusPartiallyPaid
	}
	ar.IncrementVersion()
	ar.AddDomainEvent(NewAccountPaymentRegisteredEvent(AggregateTypeAccountReceivable, ar.ID, ar.TenantID, inst.Amount, ar.Status))
	return inst, nil
}

// RegisterPayment records a direct payment on a receivable without installments.
// Installment receivables are settled one installment at a time.
func (ar *AccountReceivable) RegisterPayment(amount decimal.Decimal, paidAt time.Time) error {
	if len(ar.Installments) > 0 {
		return shared.NewForbiddenError("receivable has installments; pay them individually")
	}
	status, err := applyPayment(ar.Status, ar.TotalAmount, &ar.PaidAmount, amount)
	if err != nil {
		return err
	}
	ar.Status = status
	if status == AccountStatusPaid {
		ar.PaidAt = &paidAt
	}
	ar.IncrementVersion()
	ar.AddDomainEvent(NewAccountPaymentRegisteredEvent(AggregateTypeAccountReceivable, ar.ID, ar.TenantID, amount, ar.Status))
	return nil
}

// MarkOverdue moves an unpaid receivable past its due date to overdue.
// It reports whether the status changed.
func (ar *AccountReceivable) MarkOverdue(now time.Time) bool {
	if !ar.Status.CanBecomeOverdue() || !ar.DueDate.Before(now) {
		return false
	}
	ar.Status = AccountStatusOverdue
	ar.Touch()
	return true
}

// OutstandingAmount returns total minus paid, never negative
func (ar *AccountReceivable) OutstandingAmount() decimal.Decimal {
	return outstanding(ar.TotalAmount, ar.PaidAmount)
}

// applyPayment adds amount to paid and returns the resulting status
func applyPayment(current AccountStatus, total decimal.Decimal, paid *decimal.Decimal, amount decimal.Decimal) (AccountStatus, error) {
	if !amount.IsPositive() {
		return current, shared.NewValidationError("payment amount must be positive")
	}
	if current == AccountStatusPaid {
		return current, shared.NewConflictError("account is already paid")
	}
	*paid = paid.Add(amount)
	if paid.GreaterThanOrEqual(total) {
		return AccountStatusPaid, nil
	}
	return AccountStatusPartiallyPaid, nil
}

func outstanding(total, paid decimal.Decimal) decimal.Decimal {
	o := total.Sub(paid)
	if o.IsNegative() {
		return decimal.Zero
	}
	return o
}
