package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("normalizes phone and formats address", func(t *testing.T) {
		repo := new(apptest.MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CustomerRequest{
			Name:  "Gráfica Paulista",
			Email: "Contato@Paulista.com.br",
			Phone: "(11) 98765-4321",
			Address: valueobject.AddressDTO{
				Street:       "Rua Augusta",
				Number:       "1500",
				Neighborhood: "Consolação",
				City:         "São Paulo",
				State:        "SP",
				PostalCode:   "01310-100",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "+5511987654321", resp.Phone)
		assert.Equal(t, "contato@paulista.com.br", resp.Email)
		assert.Contains(t, resp.AddressFormatted, "São Paulo/SP")
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		repo := new(apptest.MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, tenantID, CustomerRequest{Name: "Cliente", Phone: "123"})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("accepts empty address", func(t *testing.T) {
		repo := new(apptest.MockCustomerRepository)
		svc := NewCustomerService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CustomerRequest{Name: "Balcão"})

		require.NoError(t, err)
		assert.Empty(t, resp.AddressFormatted)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(apptest.MockCustomerRepository)
	svc := NewCustomerService(repo)

	customer, err := partner.NewCustomer(tenantID, partner.CustomerInput{Name: "Antigo"})
	require.NoError(t, err)
	repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)

	resp, err := svc.Update(ctx, tenantID, customer.ID, CustomerRequest{Name: "Novo Nome"})

	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", resp.Name)
	repo.AssertExpectations(t)
}

func TestCustomerService_GetByID_OtherTenant(t *testing.T) {
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()
	repo := new(apptest.MockCustomerRepository)
	svc := NewCustomerService(repo)
	repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.NewNotFoundError("customer", id))

	_, err := svc.GetByID(ctx, tenantID, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
