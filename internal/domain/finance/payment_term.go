package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// PaymentTerm describes how a total is split into installments, e.g. "30/60/90".
type PaymentTerm struct {
	shared.BaseEntity
	TenantID                uuid.UUID
	Name                    string
	NumberOfInstallments    int
	DaysForFirstInstallment int
	DaysBetweenInstallments int
}

// NewPaymentTerm creates a payment term
func NewPaymentTerm(tenantID uuid.UUID, name string, installments, daysFirst, daysBetween int) (*PaymentTerm, error) {
	t := &PaymentTerm{BaseEntity: shared.NewBaseEntity(), TenantID: tenantID}
	if err := t.Update(name, installments, daysFirst, daysBetween); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the term definition. Existing receivables are not affected.
func (t *PaymentTerm) Update(name string, installments, daysFirst, daysBetween int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("payment term name cannot be empty")
	}
	if installments < 1 || installments > 120 {
		return shared.NewValidationError("number of installments must be between 1 and 120")
	}
	if daysFirst < 0 || daysBetween < 0 {
		return shared.NewValidationError("installment days cannot be negative")
	}
	t.Name = name
	t.NumberOfInstallments = installments
	t.DaysForFirstInstallment = daysFirst
	t.DaysBetweenInstallments = daysBetween
	t.Touch()
	return nil
}
