package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuoteStatusModel is a row of the tenant's quote status catalog
type QuoteStatusModel struct {
	TenantModel
	Name      string           `gorm:"type:varchar(100);not null"`
	Color     string           `gorm:"type:varchar(20)"`
	SortOrder int              `gorm:"not null;default:0"`
	Role      quote.StatusRole `gorm:"type:varchar(20);not null"`
	IsDefault bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (QuoteStatusModel) TableName() string {
	return "quote_statuses"
}

// ToDomain converts the persistence model to a domain quote Status
func (m *QuoteStatusModel) ToDomain() *quote.Status {
	return &quote.Status{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Name:       m.Name,
		Color:      m.Color,
		SortOrder:  m.SortOrder,
		Role:       m.Role,
		IsDefault:  m.IsDefault,
	}
}

// QuoteStatusModelFromDomain creates a new persistence model from a domain quote Status
func QuoteStatusModelFromDomain(s *quote.Status) *QuoteStatusModel {
	m := &QuoteStatusModel{
		Name:      s.Name,
		Color:     s.Color,
		SortOrder: s.SortOrder,
		Role:      s.Role,
		IsDefault: s.IsDefault,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TenantID = s.TenantID
	return m
}

// QuoteModel is the persistence model for the Quote aggregate root.
// The customer snapshot is stored as JSON and never joined back to customers.
type QuoteModel struct {
	TenantAggregateModel
	CustomerID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID              uuid.UUID         `gorm:"type:uuid;not null"`
	StatusID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status              *QuoteStatusModel `gorm:"foreignKey:StatusID"`
	CustomerSnapshot    datatypes.JSON    `gorm:"not null"`
	Subtotal            decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercentage  decimal.Decimal   `gorm:"type:decimal(5,2);not null;default:0"`
	TotalAmount         decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethodID     *uuid.UUID        `gorm:"type:uuid"`
	PaymentTermID       *uuid.UUID        `gorm:"type:uuid"`
	DeliveryMethodID    *uuid.UUID        `gorm:"type:uuid"`
	NegotiationSourceID *uuid.UUID        `gorm:"type:uuid"`
	DeliveryDate        *time.Time
	Notes               string `gorm:"type:text"`
	CancellationReason  string `gorm:"type:text"`
	ApprovedAt          *time.Time
	Items               []QuoteItemModel `gorm:"foreignKey:QuoteID"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// QuoteItemModel is the persistence model for a quote line item
type QuoteItemModel struct {
	BaseModel
	QuoteID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName        string          `gorm:"type:varchar(200);not null"`
	Quantity           int             `gorm:"not null"`
	UnitCostPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UnitSalePrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ProfitMargin       decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AttachmentPath     string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() (*quote.Quote, error) {
	snapshot, err := quote.DeserializeCustomerSnapshot(m.CustomerSnapshot)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", m.ID, err)
	}
	q := &quote.Quote{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CustomerID:          m.CustomerID,
		UserID:              m.UserID,
		StatusID:            m.StatusID,
		Customer:            snapshot,
		Subtotal:            m.Subtotal,
		DiscountPercentage:  m.DiscountPercentage,
		TotalAmount:         m.TotalAmount,
		PaymentMethodID:     m.PaymentMethodID,
		PaymentTermID:       m.PaymentTermID,
		DeliveryMethodID:    m.DeliveryMethodID,
		NegotiationSourceID: m.NegotiationSourceID,
		DeliveryDate:        m.DeliveryDate,
		Notes:               m.Notes,
		CancellationReason:  m.CancellationReason,
		ApprovedAt:          m.ApprovedAt,
		Items:               make([]quote.QuoteItem, len(m.Items)),
	}
	if m.Status != nil {
		q.Status = m.Status.ToDomain()
	}
	for i := range m.Items {
		q.Items[i] = m.Items[i].ToDomain()
	}
	return q, nil
}

// ToDomain converts the persistence model to a domain QuoteItem
func (m *QuoteItemModel) ToDomain() quote.QuoteItem {
	return quote.QuoteItem{
		ID:                 m.ID,
		QuoteID:            m.QuoteID,
		ProductID:          m.ProductID,
		ProductName:        m.ProductName,
		Quantity:           m.Quantity,
		UnitCostPrice:      m.UnitCostPrice,
		UnitSalePrice:      m.UnitSalePrice,
		DiscountPercentage: m.DiscountPercentage,
		ProfitMargin:       m.ProfitMargin,
		TotalPrice:         m.TotalPrice,
		AttachmentPath:     m.AttachmentPath,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
// Status is left nil so saving a quote never writes the catalog row.
func QuoteModelFromDomain(q *quote.Quote) (*QuoteModel, error) {
	snapshot, err := q.Customer.Serialize()
	if err != nil {
		return nil, err
	}
	m := &QuoteModel{
		CustomerID:          q.CustomerID,
		UserID:              q.UserID,
		StatusID:            q.StatusID,
		CustomerSnapshot:    datatypes.JSON(snapshot),
		Subtotal:            q.Subtotal,
		DiscountPercentage:  q.DiscountPercentage,
		TotalAmount:         q.TotalAmount,
		PaymentMethodID:     q.PaymentMethodID,
		PaymentTermID:       q.PaymentTermID,
		DeliveryMethodID:    q.DeliveryMethodID,
		NegotiationSourceID: q.NegotiationSourceID,
		DeliveryDate:        q.DeliveryDate,
		Notes:               q.Notes,
		CancellationReason:  q.CancellationReason,
		ApprovedAt:          q.ApprovedAt,
		Items:               make([]QuoteItemModel, len(q.Items)),
	}
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	for i, item := range q.Items {
		m.Items[i] = QuoteItemModelFromDomain(q.ID, item)
	}
	return m, nil
}

// QuoteItemModelFromDomain creates the persistence model of one item
func QuoteItemModelFromDomain(quoteID uuid.UUID, item quote.QuoteItem) QuoteItemModel {
	createdAt, updatedAt := item.CreatedAt, item.UpdatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return QuoteItemModel{
		BaseModel:          BaseModel{ID: item.ID, CreatedAt: createdAt, UpdatedAt: updatedAt},
		QuoteID:            quoteID,
		ProductID:          item.ProductID,
		ProductName:        item.ProductName,
		Quantity:           item.Quantity,
		UnitCostPrice:      item.UnitCostPrice,
		UnitSalePrice:      item.UnitSalePrice,
		DiscountPercentage: item.DiscountPercentage,
		ProfitMargin:       item.ProfitMargin,
		TotalPrice:         item.TotalPrice,
		AttachmentPath:     item.AttachmentPath,
	}
}
