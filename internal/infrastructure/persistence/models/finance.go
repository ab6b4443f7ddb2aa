package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// AccountReceivableModel is the persistence model for the AccountReceivable aggregate root.
// At most one row exists per (tenant_id, production_order_id).
type AccountReceivableModel struct {
	TenantAggregateModel
	QuoteID           *uuid.UUID                   `gorm:"type:uuid;index"`
	CustomerID        *uuid.UUID                   `gorm:"type:uuid;index"`
	ProductionOrderID *uuid.UUID                   `gorm:"type:uuid"`
	Description       string                       `gorm:"type:varchar(255);not null"`
	TotalAmount       decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount        decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	DueDate           time.Time                    `gorm:"not null;index"`
	PaidAt            *time.Time
	Status            finance.AccountStatus        `gorm:"type:varchar(20);not null;default:'pending';index"`
	Installments      []ReceivableInstallmentModel `gorm:"foreignKey:ReceivableID"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "accounts_receivable"
}

// ReceivableInstallmentModel is one scheduled installment of a receivable
type ReceivableInstallmentModel struct {
	ID                uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	ReceivableID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	InstallmentNumber int                       `gorm:"not null"`
	Amount            decimal.Decimal           `gorm:"type:decimal(12,2);not null"`
	DueDate           time.Time                 `gorm:"not null"`
	PaidAt            *time.Time
	Status            finance.InstallmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (ReceivableInstallmentModel) TableName() string {
	return "receivable_installments"
}

// ToDomain converts the persistence model to a domain AccountReceivable
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	ar := &finance.AccountReceivable{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		QuoteID:             m.QuoteID,
		CustomerID:          m.CustomerID,
		ProductionOrderID:   m.ProductionOrderID,
		Description:         m.Description,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
		Status:              m.Status,
		Installments:        make([]finance.ReceivableInstallment, len(m.Installments)),
	}
	for i, inst := range m.Installments {
		ar.Installments[i] = finance.ReceivableInstallment{
			ID:                inst.ID,
			ReceivableID:      inst.ReceivableID,
			InstallmentNumber: inst.InstallmentNumber,
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			PaidAt:            inst.PaidAt,
			Status:            inst.Status,
		}
	}
	return ar
}

// AccountReceivableModelFromDomain creates a new persistence model from a domain AccountReceivable
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		QuoteID:           ar.QuoteID,
		CustomerID:        ar.CustomerID,
		ProductionOrderID: ar.ProductionOrderID,
		Description:       ar.Description,
		TotalAmount:       ar.TotalAmount,
		PaidAmount:        ar.PaidAmount,
		DueDate:           ar.DueDate,
		PaidAt:            ar.PaidAt,
		Status:            ar.Status,
		Installments:      make([]ReceivableInstallmentModel, len(ar.Installments)),
	}
	m.FromDomainTenantAggregateRoot(ar.TenantAggregateRoot)
	for i, inst := range ar.Installments {
		m.Installments[i] = ReceivableInstallmentModel{
			ID:                inst.ID,
			ReceivableID:      ar.ID,
			InstallmentNumber: inst.InstallmentNumber,
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			PaidAt:            inst.PaidAt,
			Status:            inst.Status,
		}
	}
	return m
}

// AccountPayableModel is the persistence model for the AccountPayable aggregate root
type AccountPayableModel struct {
	TenantAggregateModel
	Supplier    string                `gorm:"type:varchar(200)"`
	Description string                `gorm:"type:varchar(255);not null"`
	TotalAmount decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount  decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	DueDate     time.Time             `gorm:"not null;index"`
	PaidAt      *time.Time
	Status      finance.AccountStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes       string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "accounts_payable"
}

// ToDomain converts the persistence model to a domain AccountPayable
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	return &finance.AccountPayable{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Supplier:            m.Supplier,
		Description:         m.Description,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// AccountPayableModelFromDomain creates a new persistence model from a domain AccountPayable
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{
		Supplier:    ap.Supplier,
		Description: ap.Description,
		TotalAmount: ap.TotalAmount,
		PaidAmount:  ap.PaidAmount,
		DueDate:     ap.DueDate,
		PaidAt:      ap.PaidAt,
		Status:      ap.Status,
		Notes:       ap.Notes,
	}
	m.FromDomainTenantAggregateRoot(ap.TenantAggregateRoot)
	return m
}

// PaymentTermModel is the persistence model for a payment term
type PaymentTermModel struct {
	TenantModel
	Name                    string `gorm:"type:varchar(100);not null"`
	NumberOfInstallments    int    `gorm:"not null;default:1"`
	DaysForFirstInstallment int    `gorm:"not null;default:0"`
	DaysBetweenInstallments int    `gorm:"not null;default:30"`
}

// TableName returns the table name for GORM
func (PaymentTermModel) TableName() string {
	return "payment_terms"
}

// ToDomain converts the persistence model to a domain PaymentTerm
func (m *PaymentTermModel) ToDomain() *finance.PaymentTerm {
	return &finance.PaymentTerm{
		BaseEntity:              m.BaseModel.ToDomain(),
		TenantID:                m.TenantID,
		Name:                    m.Name,
		NumberOfInstallments:    m.NumberOfInstallments,
		DaysForFirstInstallment: m.DaysForFirstInstallment,
		DaysBetweenInstallments: m.DaysBetweenInstallments,
	}
}

// PaymentTermModelFromDomain creates a new persistence model from a domain PaymentTerm
func PaymentTermModelFromDomain(t *finance.PaymentTerm) *PaymentTermModel {
	m := &PaymentTermModel{
		Name:                    t.Name,
		NumberOfInstallments:    t.NumberOfInstallments,
		DaysForFirstInstallment: t.DaysForFirstInstallment,
		DaysBetweenInstallments: t.DaysBetweenInstallments,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	return m
}
