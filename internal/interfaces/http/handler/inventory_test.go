package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	inventoryapp "github.com/printshop/backend/internal/application/inventory"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type inventoryHandlerFixture struct {
	tenantID  uuid.UUID
	userID    uuid.UUID
	repos     *apptest.Repos
	publisher *apptest.MockEventPublisher
	router    *gin.Engine
}

func newInventoryHandlerFixture() *inventoryHandlerFixture {
	f := &inventoryHandlerFixture{
		tenantID:  uuid.New(),
		userID:    uuid.New(),
		repos:     apptest.NewRepos(),
		publisher: new(apptest.MockEventPublisher),
	}
	svc := inventoryapp.NewStockService(f.repos.Scope(), f.repos.Set(), f.publisher, zap.NewNop())
	h := NewInventoryHandler(svc)

	f.router = gin.New()
	f.router.Use(withIdentity(f.tenantID, f.userID))
	f.router.POST("/inventory/movements", h.RecordMovement)
	f.router.POST("/inventory/movements/:id/reversal", h.ReverseMovement)
	return f
}

func (f *inventoryHandlerFixture) post(path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestInventoryHandler_RecordMovement(t *testing.T) {
	t.Run("exit types are stored negative", func(t *testing.T) {
		f := newInventoryHandlerFixture()
		product, err := catalog.NewProduct(f.tenantID, "Papel couché 150g", catalog.ProductTypeProduct, decimal.NewFromInt(1), decimal.NewFromInt(2))
		require.NoError(t, err)
		f.repos.Products.On("FindByIDForTenant", mock.Anything, f.tenantID, product.ID).Return(product, nil)
		f.repos.Movements.On("Create", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Quantity == -5 && m.Type == inventory.MovementAdjustmentOut
		})).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		w := f.post("/inventory/movements",
			`{"product_id":"`+product.ID.String()+`","quantity":5,"type":"manual_adjustment_out"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(-5), data["quantity"])
		assert.Equal(t, f.userID.String(), data["created_by"])
		f.publisher.AssertExpectations(t)
	})

	tests := []struct {
		name string
		body string
	}{
		{"production deduction is not user creatable", `{"product_id":"` + uuid.New().String() + `","quantity":3,"type":"deduction_for_production"}`},
		{"zero quantity", `{"product_id":"` + uuid.New().String() + `","quantity":0,"type":"purchase"}`},
		{"missing product", `{"quantity":3,"type":"purchase"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInventoryHandlerFixture()

			w := f.post("/inventory/movements", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
			f.repos.Movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInventoryHandler_ReverseMovement_AlreadyReversed(t *testing.T) {
	f := newInventoryHandlerFixture()
	product, err := catalog.NewProduct(f.tenantID, "Lona", catalog.ProductTypeProduct, decimal.NewFromInt(10), decimal.NewFromInt(25))
	require.NoError(t, err)
	original, err := inventory.NewStockMovement(f.tenantID, product.ID, 20, inventory.MovementPurchase, "", nil)
	require.NoError(t, err)

	f.repos.Movements.On("FindByIDForTenant", mock.Anything, f.tenantID, original.ID).Return(original, nil)
	f.repos.Products.On("FindByIDForUpdate", mock.Anything, f.tenantID, product.ID).Return(product, nil)
	f.repos.Movements.On("HasReversal", mock.Anything, f.tenantID, original.ID).Return(true, nil)

	w := f.post("/inventory/movements/"+original.ID.String()+"/reversal", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	f.repos.Movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
