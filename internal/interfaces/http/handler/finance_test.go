package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	financeapp "github.com/printshop/backend/internal/application/finance"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func paymentTermRouter(repo *apptest.MockPaymentTermRepository, tenantID uuid.UUID) *gin.Engine {
	h := NewFinanceHandler(FinanceServices{PaymentTerms: financeapp.NewPaymentTermService(repo)})
	router := gin.New()
	router.Use(withIdentity(tenantID, uuid.New()))
	router.POST("/payment-terms", h.CreatePaymentTerm)
	router.GET("/payment-terms/:id", h.GetPaymentTerm)
	router.DELETE("/payment-terms/:id", h.DeletePaymentTerm)
	return router
}

func TestFinanceHandler_CreatePaymentTerm(t *testing.T) {
	tenantID := uuid.New()
	repo := new(apptest.MockPaymentTermRepository)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(term *finance.PaymentTerm) bool {
		return term.TenantID == tenantID && term.NumberOfInstallments == 3
	})).Return(nil)

	body := `{"name":"30/60/90","number_of_installments":3,"days_for_first_installment":30,"days_between_installments":30}`
	req := httptest.NewRequest(http.MethodPost, "/payment-terms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	paymentTermRouter(repo, tenantID).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp APIResponse[financeapp.PaymentTermResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30/60/90", resp.Data.Name)
	assert.Equal(t, 30, resp.Data.DaysForFirstInstallment)
	repo.AssertExpectations(t)
}

func TestFinanceHandler_CreatePaymentTerm_TooManyInstallments(t *testing.T) {
	repo := new(apptest.MockPaymentTermRepository)

	req := httptest.NewRequest(http.MethodPost, "/payment-terms",
		strings.NewReader(`{"name":"Longo","number_of_installments":121}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	paymentTermRouter(repo, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFinanceHandler_GetPaymentTerm_NotFound(t *testing.T) {
	tenantID, id := uuid.New(), uuid.New()
	repo := new(apptest.MockPaymentTermRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.NewNotFoundError("payment term", id))

	w := httptest.NewRecorder()
	paymentTermRouter(repo, tenantID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-terms/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinanceHandler_DeletePaymentTerm(t *testing.T) {
	tenantID := uuid.New()
	term, err := finance.NewPaymentTerm(tenantID, "À vista", 1, 0, 0)
	require.NoError(t, err)

	repo := new(apptest.MockPaymentTermRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, term.ID).Return(term, nil)
	repo.On("DeleteForTenant", mock.Anything, tenantID, term.ID).Return(nil)

	w := httptest.NewRecorder()
	paymentTermRouter(repo, tenantID).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/payment-terms/"+term.ID.String(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	repo.AssertExpectations(t)
}
