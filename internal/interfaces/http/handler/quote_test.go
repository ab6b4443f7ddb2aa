package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	quoteapp "github.com/printshop/backend/internal/application/quote"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type quoteHandlerFixture struct {
	tenantID uuid.UUID
	repos    *apptest.Repos
	statuses []*quote.Status
	router   *gin.Engine
}

func newQuoteHandlerFixture() *quoteHandlerFixture {
	f := &quoteHandlerFixture{tenantID: uuid.New(), repos: apptest.NewRepos()}
	f.statuses = quote.DefaultStatuses(f.tenantID)

	svc := quoteapp.NewQuoteService(quoteapp.QuoteServiceDeps{
		Scope:     f.repos.Scope(),
		Repos:     f.repos.Set(),
		Locker:    apptest.NoLocker{},
		Publisher: new(apptest.MockEventPublisher),
		Storage:   new(apptest.MockObjectStorage),
	})
	h := NewQuoteHandler(svc)

	f.router = gin.New()
	f.router.Use(withIdentity(f.tenantID, uuid.New()))
	f.router.GET("/quotes/:id", h.GetByID)
	f.router.DELETE("/quotes/:id/items/:itemId", h.RemoveItem)
	return f
}

func (f *quoteHandlerFixture) quoteWithItem(t *testing.T) (*quote.Quote, uuid.UUID) {
	t.Helper()
	q, err := quote.NewQuote(f.tenantID, uuid.New(), uuid.New(), quote.CustomerSnapshot{Name: "Loja Azul"}, f.statuses[0])
	require.NoError(t, err)
	item, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Banner 1x2m", SalePrice: decimal.NewFromInt(120)}, 1)
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q, item.ID
}

func TestQuoteHandler_GetByID(t *testing.T) {
	f := newQuoteHandlerFixture()
	q, _ := f.quoteWithItem(t)
	f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, q.ID).Return(q, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quotes/"+q.ID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, q.ID.String(), data["id"])
	assert.Equal(t, "120", data["total_amount"])
	assert.Equal(t, false, data["locked"])
	assert.Len(t, data["items"], 1)
}

func TestQuoteHandler_RemoveItem(t *testing.T) {
	f := newQuoteHandlerFixture()
	q, itemID := f.quoteWithItem(t)
	f.repos.Quotes.On("FindByIDForUpdate", mock.Anything, f.tenantID, q.ID).Return(q, nil)
	f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/quotes/"+q.ID.String()+"/items/"+itemID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Empty(t, data["items"])
	assert.Equal(t, "0", data["total_amount"])
	f.repos.Quotes.AssertExpectations(t)
}

func TestQuoteHandler_RemoveItem_LockedQuote(t *testing.T) {
	f := newQuoteHandlerFixture()
	q, itemID := f.quoteWithItem(t)
	approved := f.statuses[1]
	q.Status, q.StatusID = approved, approved.ID
	f.repos.Quotes.On("FindByIDForUpdate", mock.Anything, f.tenantID, q.ID).Return(q, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/quotes/"+q.ID.String()+"/items/"+itemID.String(), nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decodeResponse(t, w).Error.Code)
	f.repos.Quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuoteHandler_RemoveItem_InvalidItemID(t *testing.T) {
	f := newQuoteHandlerFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/quotes/"+uuid.NewString()+"/items/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.repos.Quotes.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}
