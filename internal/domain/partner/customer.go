package partner

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// Customer is a buyer of quotes
type Customer struct {
	shared.TenantAggregateRoot
	Name     string
	Email    string
	Phone    string // E.164
	Document string
	Address  valueobject.Address
	Notes    string
}

// CustomerInput carries the editable customer fields
type CustomerInput struct {
	Name     string
	Email    string
	Phone    string
	Document string
	Address  valueobject.Address
	Notes    string
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, input CustomerInput) (*Customer, error) {
	c := &Customer{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := c.apply(input); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Customer) Update(input CustomerInput) error {
	if err := c.apply(input); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// DisplayPhone returns the phone formatted for documents
func (c *Customer) DisplayPhone() string {
	return DisplayPhone(c.Phone)
}

func (c *Customer) apply(input CustomerInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return shared.NewValidationError("customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("customer name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("invalid email address")
		}
	}
	phone, err := NormalizePhone(input.Phone, DefaultPhoneRegion)
	if err != nil {
		return err
	}

	c.Name = name
	c.Email = strings.ToLower(email)
	c.Phone = phone
	c.Document = strings.TrimSpace(input.Document)
	c.Address = input.Address
	c.Notes = input.Notes
	return nil
}
