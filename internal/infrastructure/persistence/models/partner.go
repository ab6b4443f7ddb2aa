package models

import (
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer domain entity.
// The address value object is flattened into address_* columns.
type CustomerModel struct {
	TenantAggregateModel
	Name                string `gorm:"type:varchar(200);not null;index"`
	Email               string `gorm:"type:varchar(200)"`
	Phone               string `gorm:"type:varchar(20)"`
	Document            string `gorm:"type:varchar(20)"`
	AddressStreet       string `gorm:"type:varchar(200)"`
	AddressNumber       string `gorm:"type:varchar(20)"`
	AddressComplement   string `gorm:"type:varchar(100)"`
	AddressNeighborhood string `gorm:"type:varchar(100)"`
	AddressCity         string `gorm:"type:varchar(100)"`
	AddressState        string `gorm:"type:varchar(2)"`
	AddressPostalCode   string `gorm:"type:varchar(8)"`
	Notes               string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
// A stored address that no longer validates is returned empty.
func (m *CustomerModel) ToDomain() *partner.Customer {
	address, err := valueobject.AddressFromDTO(valueobject.AddressDTO{
		Street:       m.AddressStreet,
		Number:       m.AddressNumber,
		Complement:   m.AddressComplement,
		Neighborhood: m.AddressNeighborhood,
		City:         m.AddressCity,
		State:        m.AddressState,
		PostalCode:   m.AddressPostalCode,
	})
	if err != nil {
		address = valueobject.EmptyAddress()
	}
	return &partner.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Document:            m.Document,
		Address:             address,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Document = c.Document
	m.AddressStreet = c.Address.Street()
	m.AddressNumber = c.Address.Number()
	m.AddressComplement = c.Address.Complement()
	m.AddressNeighborhood = c.Address.Neighborhood()
	m.AddressCity = c.Address.City()
	m.AddressState = c.Address.State()
	m.AddressPostalCode = c.Address.PostalCode()
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
