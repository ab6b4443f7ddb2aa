package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	partnerapp "github.com/printshop/backend/internal/application/partner"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func customerRouter(repo *apptest.MockCustomerRepository, tenantID uuid.UUID) *gin.Engine {
	h := NewCustomerHandler(partnerapp.NewCustomerService(repo))
	router := gin.New()
	router.Use(withIdentity(tenantID, uuid.New()))
	router.POST("/customers", h.Create)
	router.GET("/customers", h.List)
	router.GET("/customers/:id", h.GetByID)
	router.PUT("/customers/:id", h.Update)
	return router
}

func TestCustomerHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	repo := new(apptest.MockCustomerRepository)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.TenantID == tenantID && c.Name == "Gráfica Central"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"name":"Gráfica Central","email":"contato@grafica.com.br"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	customerRouter(repo, tenantID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Gráfica Central", data["name"])
	repo.AssertExpectations(t)
}

func TestCustomerHandler_CreateValidation(t *testing.T) {
	repo := new(apptest.MockCustomerRepository)

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	customerRouter(repo, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email"}, fields)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerHandler_GetByID_NotFound(t *testing.T) {
	tenantID, id := uuid.New(), uuid.New()
	repo := new(apptest.MockCustomerRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.NewNotFoundError("customer", id))

	w := httptest.NewRecorder()
	customerRouter(repo, tenantID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestCustomerHandler_ListReturnsMeta(t *testing.T) {
	tenantID := uuid.New()
	customer, err := partner.NewCustomer(tenantID, partner.CustomerInput{Name: "Ana"})
	require.NoError(t, err)

	repo := new(apptest.MockCustomerRepository)
	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).Return([]partner.Customer{*customer}, nil)
	repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(41), nil)

	w := httptest.NewRecorder()
	customerRouter(repo, tenantID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers?page=2&page_size=20", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 1)
}
