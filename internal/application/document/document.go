// Package document assembles the printable views of quotes and production
// orders and hands them to a PDF generator.
package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// Kind identifies a document layout
type Kind string

const (
	KindQuote            Kind = "quote"
	KindWorkOrder        Kind = "work_order"
	KindDeliveryProtocol Kind = "delivery_protocol"
)

// PDFGenerator renders the view model of a document kind to PDF bytes
type PDFGenerator interface {
	Generate(ctx context.Context, kind Kind, title string, data any) ([]byte, error)
}

// Document is a generated file ready to be streamed
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ItemLine is one printed line item
type ItemLine struct {
	Number             int
	ProductName        string
	Quantity           int
	UnitSalePrice      decimal.Decimal
	DiscountPercentage decimal.Decimal
	TotalPrice         decimal.Decimal
	HasAttachment      bool
}

// CustomerView is the customer block printed on every document
type CustomerView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// QuoteView is the data bound to the quote template
type QuoteView struct {
	ID                 uuid.UUID
	ShortID            string
	Status             string
	Customer           CustomerView
	Items              []ItemLine
	Subtotal           decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	DeliveryDate       *time.Time
	Notes              string
	CreatedAt          time.Time
	PrintedAt          time.Time
}

// OrderView is the data bound to the work order and delivery protocol templates
type OrderView struct {
	ID           uuid.UUID
	InternalID   int64
	Status       string
	Notes        string
	CreatedAt    time.Time
	CompletedAt  *time.Time
	DeliveryDate *time.Time
	Customer     CustomerView
	Items        []ItemLine
	TotalAmount  decimal.Decimal
	QuoteNotes   string
	PrintedAt    time.Time
}

func customerView(s quote.CustomerSnapshot) CustomerView {
	return CustomerView{Name: s.Name, Email: s.Email, Phone: s.Phone, Address: s.Address}
}

func itemLines(items []quote.QuoteItem) []ItemLine {
	lines := make([]ItemLine, len(items))
	for i, item := range items {
		lines[i] = ItemLine{
			Number:             i + 1,
			ProductName:        item.ProductName,
			Quantity:           item.Quantity,
			UnitSalePrice:      item.UnitSalePrice,
			DiscountPercentage: item.DiscountPercentage,
			TotalPrice:         item.TotalPrice,
			HasAttachment:      item.AttachmentPath != "",
		}
	}
	return lines
}

// NewQuoteView builds the quote view from a fully loaded quote
func NewQuoteView(q *quote.Quote, printedAt time.Time) QuoteView {
	view := QuoteView{
		ID:                 q.ID,
		ShortID:            shortID(q.ID),
		Customer:           customerView(q.Customer),
		Items:              itemLines(q.Items),
		Subtotal:           q.Subtotal,
		DiscountPercentage: q.DiscountPercentage,
		DiscountAmount:     q.Subtotal.Sub(q.TotalAmount),
		TotalAmount:        q.TotalAmount,
		DeliveryDate:       q.DeliveryDate,
		Notes:              q.Notes,
		CreatedAt:          q.CreatedAt,
		PrintedAt:          printedAt,
	}
	if q.Status != nil {
		view.Status = q.Status.Name
	}
	return view
}

// NewOrderView builds the order view from an order and its quote
func NewOrderView(o *production.ProductionOrder, q *quote.Quote, printedAt time.Time) OrderView {
	view := OrderView{
		ID:           o.ID,
		InternalID:   o.InternalID,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		CompletedAt:  o.CompletedAt,
		DeliveryDate: q.DeliveryDate,
		Customer:     customerView(q.Customer),
		Items:        itemLines(q.Items),
		TotalAmount:  q.TotalAmount,
		QuoteNotes:   q.Notes,
		PrintedAt:    printedAt,
	}
	if o.Status != nil {
		view.Status = o.Status.Name
	}
	return view
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
