package quote

import (
	"encoding/json"
	"fmt"
)

// CustomerSnapshot freezes the customer's contact data at quote creation.
// Later edits to the customer never change an existing quote.
type CustomerSnapshot struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type customerSnapshotJSON struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Serialize encodes the snapshot for storage
func (s CustomerSnapshot) Serialize() ([]byte, error) {
	data, err := json.Marshal(customerSnapshotJSON{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("serialize customer snapshot: %w", err)
	}
	return data, nil
}

// DeserializeCustomerSnapshot decodes a stored snapshot. Empty input yields a zero snapshot.
func DeserializeCustomerSnapshot(data []byte) (CustomerSnapshot, error) {
	if len(data) == 0 || string(data) == "null" {
		return CustomerSnapshot{}, nil
	}
	var v customerSnapshotJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return CustomerSnapshot{}, fmt.Errorf("deserialize customer snapshot: %w", err)
	}
	return CustomerSnapshot{
		Name:    v.Name,
		Email:   v.Email,
		Phone:   v.Phone,
		Address: v.Address,
	}, nil
}

// IsEmpty reports whether no snapshot was taken
func (s CustomerSnapshot) IsEmpty() bool {
	return s == CustomerSnapshot{}
}
