package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest represents a request to open a quote for a customer
type CreateQuoteRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	StatusID   *uuid.UUID `json:"status_id"`
	Notes      string     `json:"notes" binding:"max=4000"`
	UserID     uuid.UUID  `json:"-"`
}

// AddItemRequest adds a product to a quote
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest changes a quote line. When unit_sale_price is sent the
// margin is derived from it and profit_margin is ignored.
type UpdateItemRequest struct {
	Quantity           *int             `json:"quantity" binding:"omitempty,min=1"`
	UnitSalePrice      *decimal.Decimal `json:"unit_sale_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	ProfitMargin       *decimal.Decimal `json:"profit_margin"`
}

// UpdateHeaderRequest changes quote header fields, status included.
// A zero uuid clears a reference.
type UpdateHeaderRequest struct {
	StatusID            *uuid.UUID       `json:"status_id"`
	CancellationReason  *string          `json:"cancellation_reason" binding:"omitempty,max=1000"`
	PaymentMethodID     *uuid.UUID       `json:"payment_method_id"`
	PaymentTermID       *uuid.UUID       `json:"payment_term_id"`
	DeliveryMethodID    *uuid.UUID       `json:"delivery_method_id"`
	NegotiationSourceID *uuid.UUID       `json:"negotiation_source_id"`
	DiscountPercentage  *decimal.Decimal `json:"discount_percentage"`
	DeliveryDate        *time.Time       `json:"delivery_date"`
	Notes               *string          `json:"notes" binding:"omitempty,max=4000"`
}

// QuoteListFilter represents query parameters for listing quotes
type QuoteListFilter struct {
	Search     string `form:"search"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	StatusID   string `form:"status_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at total_amount delivery_date"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateStatusRequest creates a quote status catalog row
type CreateStatusRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Color     string `json:"color" binding:"omitempty,max=20"`
	SortOrder int    `json:"sort_order"`
	Role      string `json:"role" binding:"omitempty,oneof=none approved cancelled"`
	IsDefault bool   `json:"is_default"`
}

// StatusResponse represents a quote status in API responses
type StatusResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"is_default"`
}

// CustomerSnapshotResponse is the customer data frozen on the quote
type CustomerSnapshotResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// QuoteItemResponse represents a quote line in API responses
type QuoteItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Quantity           int             `json:"quantity"`
	UnitCostPrice      decimal.Decimal `json:"unit_cost_price"`
	UnitSalePrice      decimal.Decimal `json:"unit_sale_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ProfitMargin       decimal.Decimal `json:"profit_margin"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	AttachmentPath     string          `json:"attachment_path,omitempty"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID                  uuid.UUID                `json:"id"`
	CustomerID          uuid.UUID                `json:"customer_id"`
	UserID              uuid.UUID                `json:"user_id"`
	Status              StatusResponse           `json:"status"`
	Customer            CustomerSnapshotResponse `json:"customer"`
	Subtotal            decimal.Decimal          `json:"subtotal"`
	DiscountPercentage  decimal.Decimal          `json:"discount_percentage"`
	TotalAmount         decimal.Decimal          `json:"total_amount"`
	PaymentMethodID     *uuid.UUID               `json:"payment_method_id,omitempty"`
	PaymentTermID       *uuid.UUID               `json:"payment_term_id,omitempty"`
	DeliveryMethodID    *uuid.UUID               `json:"delivery_method_id,omitempty"`
	NegotiationSourceID *uuid.UUID               `json:"negotiation_source_id,omitempty"`
	DeliveryDate        *time.Time               `json:"delivery_date,omitempty"`
	Notes               string                   `json:"notes,omitempty"`
	CancellationReason  string                   `json:"cancellation_reason,omitempty"`
	ApprovedAt          *time.Time               `json:"approved_at,omitempty"`
	Locked              bool                     `json:"locked"`
	Items               []QuoteItemResponse      `json:"items"`
	Version             int                      `json:"version"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// ToStatusResponse converts a status row
func ToStatusResponse(s *quote.Status) StatusResponse {
	if s == nil {
		return StatusResponse{}
	}
	return StatusResponse{
		ID:        s.ID,
		Name:      s.Name,
		Color:     s.Color,
		SortOrder: s.SortOrder,
		Role:      string(s.ResolvedRole()),
		IsDefault: s.IsDefault,
	}
}

// ToQuoteResponse converts a domain Quote to QuoteResponse
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = QuoteItemResponse{
			ID:                 item.ID,
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
	return QuoteResponse{
		ID:         q.ID,
		CustomerID: q.CustomerID,
		UserID:     q.UserID,
		Status:     ToStatusResponse(q.Status),
		Customer: CustomerSnapshotResponse{
			Name:    q.Customer.Name,
			Email:   q.Customer.Email,
			Phone:   q.Customer.Phone,
			Address: q.Customer.Address,
		},
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
		Locked:              q.IsLocked(),
		Items:               items,
		Version:             q.Version,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}
