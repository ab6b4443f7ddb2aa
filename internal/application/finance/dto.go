package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentRequest registers a payment of amount on a receivable or payable
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	PaidAt *time.Time      `json:"paid_at"`
}

// InstallmentPaymentRequest settles one installment
type InstallmentPaymentRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// PayableRequest creates or updates a payable
type PayableRequest struct {
	Supplier    string          `json:"supplier" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Notes       string          `json:"notes" binding:"max=2000"`
	CreatedBy   uuid.UUID       `json:"-"`
}

// PaymentTermRequest creates or updates a payment term
type PaymentTermRequest struct {
	Name                    string `json:"name" binding:"required,min=1,max=100"`
	NumberOfInstallments    int    `json:"number_of_installments" binding:"required,min=1,max=120"`
	DaysForFirstInstallment int    `json:"days_for_first_installment" binding:"min=0"`
	DaysBetweenInstallments int    `json:"days_between_installments" binding:"min=0"`
}

// AccountListFilter represents query parameters for listing receivables or payables
type AccountListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending partially_paid paid overdue"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=due_date created_at total_amount"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID                uuid.UUID       `json:"id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	Status            string          `json:"status"`
}

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID                uuid.UUID             `json:"id"`
	QuoteID           *uuid.UUID            `json:"quote_id,omitempty"`
	CustomerID        *uuid.UUID            `json:"customer_id,omitempty"`
	ProductionOrderID *uuid.UUID            `json:"production_order_id,omitempty"`
	Description       string                `json:"description"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	PaidAmount        decimal.Decimal       `json:"paid_amount"`
	OutstandingAmount decimal.Decimal       `json:"outstanding_amount"`
	DueDate           time.Time             `json:"due_date"`
	PaidAt            *time.Time            `json:"paid_at,omitempty"`
	Status            string                `json:"status"`
	Installments      []InstallmentResponse `json:"installments"`
	CreatedAt         time.Time             `json:"created_at"`
}

// PayableResponse represents a payable in API responses
type PayableResponse struct {
	ID                uuid.UUID       `json:"id"`
	Supplier          string          `json:"supplier"`
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	DueDate           time.Time       `json:"due_date"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PaymentTermResponse represents a payment term in API responses
type PaymentTermResponse struct {
	ID                      uuid.UUID `json:"id"`
	Name                    string    `json:"name"`
	NumberOfInstallments    int       `json:"number_of_installments"`
	DaysForFirstInstallment int       `json:"days_for_first_installment"`
	DaysBetweenInstallments int       `json:"days_between_installments"`
}

// OverdueResult reports how many accounts a sweep moved to overdue
type OverdueResult struct {
	Receivables int64 `json:"receivables"`
	Payables    int64 `json:"payables"`
}

// ToReceivableResponse converts a domain AccountReceivable
func ToReceivableResponse(ar *finance.AccountReceivable) ReceivableResponse {
	installments := make([]InstallmentResponse, len(ar.Installments))
	for i, inst := range ar.Installments {
		installments[i] = InstallmentResponse{
			ID:                inst.ID,
			InstallmentNumber: inst.InstallmentNumber,
			Amount:            inst.Amount,
			DueDate:           inst.DueDate,
			PaidAt:            inst.PaidAt,
			Status:            string(inst.Status),
		}
	}
	return ReceivableResponse{
		ID:                ar.ID,
		QuoteID:           ar.QuoteID,
		CustomerID:        ar.CustomerID,
		ProductionOrderID: ar.ProductionOrderID,
		Description:       ar.Description,
		TotalAmount:       ar.TotalAmount,
		PaidAmount:        ar.PaidAmount,
		OutstandingAmount: ar.OutstandingAmount(),
		DueDate:           ar.DueDate,
		PaidAt:            ar.PaidAt,
		Status:            string(ar.Status),
		Installments:      installments,
		CreatedAt:         ar.CreatedAt,
	}
}

// ToPayableResponse converts a domain AccountPayable
func ToPayableResponse(ap *finance.AccountPayable) PayableResponse {
	return PayableResponse{
		ID:                ap.ID,
		Supplier:          ap.Supplier,
		Description:       ap.Description,
		TotalAmount:       ap.TotalAmount,
		PaidAmount:        ap.PaidAmount,
		OutstandingAmount: ap.OutstandingAmount(),
		DueDate:           ap.DueDate,
		PaidAt:            ap.PaidAt,
		Status:            string(ap.Status),
		Notes:             ap.Notes,
		CreatedAt:         ap.CreatedAt,
	}
}

// ToPaymentTermResponse converts a domain PaymentTerm
func ToPaymentTermResponse(t *finance.PaymentTerm) PaymentTermResponse {
	return PaymentTermResponse{
		ID:                      t.ID,
		Name:                    t.Name,
		NumberOfInstallments:    t.NumberOfInstallments,
		DaysForFirstInstallment: t.DaysForFirstInstallment,
		DaysBetweenInstallments: t.DaysBetweenInstallments,
	}
}

// listFilter orders accounts by nearest due date unless asked otherwise
func listFilter(filter AccountListFilter) shared.Filter {
	orderBy, orderDir := filter.OrderBy, filter.OrderDir
	if orderBy == "" {
		orderBy, orderDir = "due_date", "asc"
	}
	return shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  accountFilter(filter),
	}.Normalize()
}

func accountFilter(filter AccountListFilter) map[string]any {
	out := make(map[string]any)
	if filter.Status != "" {
		out["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		out["customer_id"] = filter.CustomerID
	}
	return out
}

func (r PayableRequest) input() finance.PayableInput {
	return finance.PayableInput{
		Supplier:    r.Supplier,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		DueDate:     r.DueDate,
		Notes:       r.Notes,
	}
}
