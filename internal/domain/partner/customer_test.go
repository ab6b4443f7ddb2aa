package partner

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{"empty", "", "", false},
		{"national mobile", "(11) 98765-4321", "+5511987654321", false},
		{"already international", "+55 21 3456-7890", "+552134567890", false},
		{"garbage", "abc", "", true},
		{"too short", "1234", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, DefaultPhoneRegion)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, shared.ErrValidationFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewCustomer(t *testing.T) {
	addr, err := valueobject.NewAddress("Rua Augusta", "10", "São Paulo", "SP")
	require.NoError(t, err)

	c, err := NewCustomer(uuid.New(), CustomerInput{
		Name:    "Gráfica Cliente Ltda",
		Email:   "Contato@Cliente.com.br",
		Phone:   "11 98765-4321",
		Address: addr,
	})
	require.NoError(t, err)
	assert.Equal(t, "contato@cliente.com.br", c.Email)
	assert.Equal(t, "+5511987654321", c.Phone)
	assert.Equal(t, "Rua Augusta, 10, São Paulo/SP", c.Address.Formatted())

	_, err = NewCustomer(uuid.New(), CustomerInput{Name: "X", Email: "not-an-email"})
	assert.Error(t, err)

	_, err = NewCustomer(uuid.New(), CustomerInput{Name: ""})
	assert.Error(t, err)
}
