package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// CustomerRequest represents a request to create or update a customer
type CustomerRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=200"`
	Email    string                 `json:"email" binding:"omitempty,email,max=200"`
	Phone    string                 `json:"phone" binding:"omitempty,max=30"`
	Document string                 `json:"document" binding:"omitempty,max=20"`
	Address  valueobject.AddressDTO `json:"address"`
	Notes    string                 `json:"notes" binding:"max=2000"`
}

// CustomerListFilter represents query parameters for listing customers
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID              `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email,omitempty"`
	Phone            string                 `json:"phone,omitempty"`
	PhoneFormatted   string                 `json:"phone_formatted,omitempty"`
	Document         string                 `json:"document,omitempty"`
	Address          valueobject.AddressDTO `json:"address"`
	AddressFormatted string                 `json:"address_formatted,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		PhoneFormatted:   c.DisplayPhone(),
		Document:         c.Document,
		Address:          c.Address.ToDTO(),
		AddressFormatted: c.Address.Formatted(),
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r CustomerRequest) toInput() (partner.CustomerInput, error) {
	address, err := valueobject.AddressFromDTO(r.Address)
	if err != nil {
		return partner.CustomerInput{}, err
	}
	return partner.CustomerInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Document: r.Document,
		Address:  address,
		Notes:    r.Notes,
	}, nil
}
