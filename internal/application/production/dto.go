package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
)

// ChangeStatusRequest moves an order to another catalog status
type ChangeStatusRequest struct {
	StatusID           uuid.UUID `json:"status_id" binding:"required"`
	CancellationReason string    `json:"cancellation_reason" binding:"max=1000"`
}

// AssignRequest sets the responsible user; an empty id unassigns
type AssignRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// OrderListFilter represents query parameters for listing production orders
type OrderListFilter struct {
	StatusID       string `form:"status_id" binding:"omitempty,uuid"`
	AssignedUserID string `form:"assigned_user_id" binding:"omitempty,uuid"`
	CustomerID     string `form:"customer_id" binding:"omitempty,uuid"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by" binding:"omitempty,oneof=internal_id created_at"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateStatusRequest creates a production status catalog row
type CreateStatusRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Color     string `json:"color" binding:"omitempty,max=20"`
	SortOrder int    `json:"sort_order"`
	Role      string `json:"role" binding:"omitempty,oneof=none in_production completed cancelled"`
	IsDefault bool   `json:"is_default"`
}

// StatusResponse represents a production status in API responses
type StatusResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"is_default"`
}

// OrderResponse represents a production order in API responses
type OrderResponse struct {
	ID                  uuid.UUID      `json:"id"`
	InternalID          int64          `json:"internal_id"`
	QuoteID             uuid.UUID      `json:"quote_id"`
	CustomerID          uuid.UUID      `json:"customer_id"`
	AssignedUserID      *uuid.UUID     `json:"assigned_user_id,omitempty"`
	Status              StatusResponse `json:"status"`
	Notes               string         `json:"notes,omitempty"`
	CancellationReason  string         `json:"cancellation_reason,omitempty"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	MaterialsDeductedAt *time.Time     `json:"materials_deducted_at,omitempty"`
	StockDeductedAt     *time.Time     `json:"stock_deducted_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// ToStatusResponse converts a status row
func ToStatusResponse(s *production.Status) StatusResponse {
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

// ToOrderResponse converts a domain ProductionOrder to OrderResponse
func ToOrderResponse(o *production.ProductionOrder) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		InternalID:          o.InternalID,
		QuoteID:             o.QuoteID,
		CustomerID:          o.CustomerID,
		AssignedUserID:      o.AssignedUserID,
		Status:              ToStatusResponse(o.Status),
		Notes:               o.Notes,
		CancellationReason:  o.CancellationReason,
		CompletedAt:         o.CompletedAt,
		MaterialsDeductedAt: o.MaterialsDeductedAt,
		StockDeductedAt:     o.StockDeductedAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}
