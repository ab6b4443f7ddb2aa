package valueobject

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	stateCodePattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	postalCodePattern = regexp.MustCompile(`^\d{8}$`)
)

// Address is an immutable postal address value object.
// Fields: Street, Number, Complement, Neighborhood, City, State (UF), PostalCode (CEP)
type Address struct {
	street       string
	number       string
	complement   string
	neighborhood string
	city         string
	state        string
	postalCode   string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

func WithComplement(complement string) AddressOption {
	return func(a *Address) {
		a.complement = strings.TrimSpace(complement)
	}
}

func WithNeighborhood(neighborhood string) AddressOption {
	return func(a *Address) {
		a.neighborhood = strings.TrimSpace(neighborhood)
	}
}

// WithPostalCode sets the postal code. Punctuation is stripped ("01310-100" -> "01310100").
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = digitsOnly(postalCode)
	}
}

// NewAddress creates a new Address. Street and city are required.
func NewAddress(street, number, city, state string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street: strings.TrimSpace(street),
		number: strings.TrimSpace(number),
		city:   strings.TrimSpace(city),
		state:  strings.ToUpper(strings.TrimSpace(state)),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if addr.street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if addr.state != "" && !stateCodePattern.MatchString(addr.state) {
		return Address{}, fmt.Errorf("state must be a two-letter code, got %q", addr.state)
	}
	if addr.postalCode != "" && !postalCodePattern.MatchString(addr.postalCode) {
		return Address{}, fmt.Errorf("postal code must have 8 digits")
	}
	return addr, nil
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

func (a Address) Street() string { return a.street }
func (a Address) Number() string { return a.number }
func (a Address) Complement() string { return a.complement }
func (a Address) Neighborhood() string { return a.neighborhood }
func (a Address) City() string { return a.city }
func (a Address) State() string { return a.state }
func (a Address) PostalCode() string { return a.postalCode }

// IsEmpty returns true if the address has neither street nor city
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == ""
}

// Formatted returns the single-line address printed on quotes and frozen into
// the customer snapshot, e.g. "Rua Augusta, 1500 - Sala 3, Consolação, São Paulo/SP, CEP 01310-100".
func (a Address) Formatted() string {
	if a.IsEmpty() {
		return ""
	}

	line := a.street
	if a.number != "" {
		line += ", " + a.number
	}
	if a.complement != "" {
		line += " - " + a.complement
	}

	parts := []string{line}
	if a.neighborhood != "" {
		parts = append(parts, a.neighborhood)
	}
	cityState := a.city
	if a.state != "" {
		cityState += "/" + a.state
	}
	parts = append(parts, cityState)
	if a.postalCode != "" {
		parts = append(parts, "CEP "+a.postalCode[:5]+"-"+a.postalCode[5:])
	}
	return strings.Join(parts, ", ")
}

func (a Address) String() string {
	return a.Formatted()
}

func (a Address) Equals(other Address) bool {
	return a == other
}

// AddressDTO is the storage and transport shape of an Address
type AddressDTO struct {
	Street       string `json:"street"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		Street:       a.street,
		Number:       a.number,
		Complement:   a.complement,
		Neighborhood: a.neighborhood,
		City:         a.city,
		State:        a.state,
		PostalCode:   a.postalCode,
	}
}

// AddressFromDTO rebuilds an Address, accepting an all-blank DTO as the empty address.
func AddressFromDTO(dto AddressDTO) (Address, error) {
	if strings.TrimSpace(dto.Street) == "" && strings.TrimSpace(dto.City) == "" {
		return EmptyAddress(), nil
	}
	return NewAddress(dto.Street, dto.Number, dto.City, dto.State,
		WithComplement(dto.Complement),
		WithNeighborhood(dto.Neighborhood),
		WithPostalCode(dto.PostalCode),
	)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var dto AddressDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	addr, err := AddressFromDTO(dto)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
