package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	productionapp "github.com/printshop/backend/internal/application/production"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productionHandlerFixture struct {
	tenantID  uuid.UUID
	repos     *apptest.Repos
	publisher *apptest.MockEventPublisher
	statuses  []*production.Status
	router    *gin.Engine
}

func newProductionHandlerFixture() *productionHandlerFixture {
	f := &productionHandlerFixture{
		tenantID:  uuid.New(),
		repos:     apptest.NewRepos(),
		publisher: new(apptest.MockEventPublisher),
	}
	f.statuses = production.DefaultStatuses(f.tenantID)

	svc := productionapp.NewOrderService(f.repos.Scope(), f.repos.Orders, f.publisher, zap.NewNop())
	h := NewProductionHandler(svc)

	f.router = gin.New()
	f.router.Use(withIdentity(f.tenantID, uuid.New()))
	f.router.GET("/production-orders/:id", h.GetByID)
	f.router.PUT("/production-orders/:id/status", h.ChangeStatus)
	f.router.PUT("/production-orders/:id/assignee", h.Assign)
	return f
}

func (f *productionHandlerFixture) order(t *testing.T, status *production.Status) *production.ProductionOrder {
	t.Helper()
	o, err := production.NewProductionOrder(f.tenantID, 12, uuid.New(), uuid.New(), status)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func (f *productionHandlerFixture) put(path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestProductionHandler_GetByID(t *testing.T) {
	f := newProductionHandlerFixture()
	o := f.order(t, f.statuses[0])
	f.repos.Orders.On("FindByIDForTenant", mock.Anything, f.tenantID, o.ID).Return(o, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/production-orders/"+o.ID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(12), data["internal_id"])
	status := data["status"].(map[string]any)
	assert.Equal(t, production.DefaultStatusWaiting, status["name"])
}

func TestProductionHandler_ChangeStatus(t *testing.T) {
	t.Run("entering production publishes the start event", func(t *testing.T) {
		f := newProductionHandlerFixture()
		o := f.order(t, f.statuses[0])
		inProduction := f.statuses[1]
		f.repos.Orders.On("FindByIDForUpdate", mock.Anything, f.tenantID, o.ID).Return(o, nil)
		f.repos.ProductionStatuses.On("FindByIDForTenant", mock.Anything, f.tenantID, inProduction.ID).Return(inProduction, nil)
		f.repos.Orders.On("Save", mock.Anything, o).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			for _, e := range events {
				if e.EventType() == production.EventTypeProductionStarted {
					return true
				}
			}
			return false
		})).Return(nil)

		w := f.put("/production-orders/"+o.ID.String()+"/status", `{"status_id":"`+inProduction.ID.String()+`"}`)

		require.Equal(t, http.StatusOK, w.Code)
		status := decodeResponse(t, w).Data.(map[string]any)["status"].(map[string]any)
		assert.Equal(t, string(production.StatusRoleInProduction), status["role"])
		f.publisher.AssertExpectations(t)
	})

	t.Run("cancelling without a reason is forbidden", func(t *testing.T) {
		f := newProductionHandlerFixture()
		o := f.order(t, f.statuses[0])
		cancelled := f.statuses[3]
		f.repos.Orders.On("FindByIDForUpdate", mock.Anything, f.tenantID, o.ID).Return(o, nil)
		f.repos.ProductionStatuses.On("FindByIDForTenant", mock.Anything, f.tenantID, cancelled.ID).Return(cancelled, nil)

		w := f.put("/production-orders/"+o.ID.String()+"/status", `{"status_id":"`+cancelled.ID.String()+`"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, decodeResponse(t, w).Error.Code)
		f.repos.Orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("terminal order rejects any transition", func(t *testing.T) {
		f := newProductionHandlerFixture()
		o := f.order(t, f.statuses[0])
		require.NoError(t, o.ChangeStatus(f.statuses[2], ""))
		o.ClearDomainEvents()
		f.repos.Orders.On("FindByIDForUpdate", mock.Anything, f.tenantID, o.ID).Return(o, nil)

		w := f.put("/production-orders/"+o.ID.String()+"/status", `{"status_id":"`+uuid.New().String()+`"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, decodeResponse(t, w).Error.Code)
		f.repos.ProductionStatuses.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
		f.repos.Orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing status id is a validation error", func(t *testing.T) {
		f := newProductionHandlerFixture()

		w := f.put("/production-orders/"+uuid.New().String()+"/status", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.repos.Orders.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductionHandler_Assign(t *testing.T) {
	f := newProductionHandlerFixture()
	o := f.order(t, f.statuses[0])
	userID := uuid.New()
	f.repos.Orders.On("FindByIDForUpdate", mock.Anything, f.tenantID, o.ID).Return(o, nil)
	f.repos.Orders.On("Save", mock.Anything, o).Return(nil)

	w := f.put("/production-orders/"+o.ID.String()+"/assignee", `{"user_id":"`+userID.String()+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), decodeResponse(t, w).Data.(map[string]any)["assigned_user_id"])
}
