package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		street      string
		city        string
		state       string
		opts        []AddressOption
		wantErr     bool
		errContains string
	}{
		{name: "minimal", street: "Rua Augusta", city: "São Paulo", state: "sp"},
		{name: "with postal code punctuation", street: "Av. Paulista", city: "São Paulo", state: "SP", opts: []AddressOption{WithPostalCode("01310-100")}},
		{name: "empty street", street: "", city: "São Paulo", wantErr: true, errContains: "street"},
		{name: "empty city", street: "Rua A", city: " ", wantErr: true, errContains: "city"},
		{name: "bad state", street: "Rua A", city: "Campinas", state: "SPX", wantErr: true, errContains: "two-letter"},
		{name: "short postal code", street: "Rua A", city: "Campinas", opts: []AddressOption{WithPostalCode("1234")}, wantErr: true, errContains: "8 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.street, "10", tt.city, tt.state, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.False(t, addr.IsEmpty())
		})
	}
}

func TestAddress_Formatted(t *testing.T) {
	addr, err := NewAddress("Rua Augusta", "1500", "São Paulo", "SP",
		WithComplement("Sala 3"),
		WithNeighborhood("Consolação"),
		WithPostalCode("01310100"),
	)
	require.NoError(t, err)

	assert.Equal(t, "Rua Augusta, 1500 - Sala 3, Consolação, São Paulo/SP, CEP 01310-100", addr.Formatted())
	assert.Equal(t, "", EmptyAddress().Formatted())
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	addr, err := NewAddress("Rua B", "7", "Curitiba", "PR", WithNeighborhood("Centro"))
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))

	var empty Address
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())
}
