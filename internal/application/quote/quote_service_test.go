package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	"github.com/printshop/backend/internal/application/attachment"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingLocker struct {
	keys []string
}

func (l *recordingLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	l.keys = append(l.keys, key)
	return apptest.NoLocker{}.Obtain(ctx, key, ttl)
}

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (shared.Lock, error) {
	return nil, shared.ErrLockNotObtained
}

type quoteFixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	repos     *apptest.Repos
	publisher *apptest.MockEventPublisher
	storage   *apptest.MockObjectStorage
	locker    *recordingLocker
	svc       *QuoteService
	open      *quote.Status
	approved  *quote.Status
	cancelled *quote.Status
}

func newQuoteFixture() *quoteFixture {
	f := &quoteFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		repos:     apptest.NewRepos(),
		publisher: new(apptest.MockEventPublisher),
		storage:   new(apptest.MockObjectStorage),
		locker:    &recordingLocker{},
	}
	statuses := quote.DefaultStatuses(f.tenantID)
	f.open, f.approved, f.cancelled = statuses[0], statuses[1], statuses[2]
	f.svc = NewQuoteService(QuoteServiceDeps{
		Scope:     f.repos.Scope(),
		Repos:     f.repos.Set(),
		Locker:    f.locker,
		Publisher: f.publisher,
		Storage:   f.storage,
	})
	return f
}

func (f *quoteFixture) existingQuote(t *testing.T) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(f.tenantID, uuid.New(), uuid.New(), quote.CustomerSnapshot{Name: "Cliente"}, f.open)
	require.NoError(t, err)
	q.ClearDomainEvents()
	f.repos.Quotes.On("FindByIDForUpdate", mock.Anything, f.tenantID, q.ID).Return(q, nil)
	return q
}

func eventTypes(types ...string) interface{} {
	return mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != len(types) {
			return false
		}
		for i, e := range events {
			if e.EventType() != types[i] {
				return false
			}
		}
		return true
	})
}

func TestQuoteService_Create(t *testing.T) {
	f := newQuoteFixture()
	customer, err := partner.NewCustomer(f.tenantID, partner.CustomerInput{
		Name:  "Gráfica Central",
		Email: "contato@central.com.br",
		Phone: "+55 11 98765-4321",
	})
	require.NoError(t, err)

	f.repos.Customers.On("FindByIDForTenant", mock.Anything, f.tenantID, customer.ID).Return(customer, nil)
	f.repos.QuoteStatuses.On("FindDefault", mock.Anything, f.tenantID).Return(f.open, nil)
	f.repos.Quotes.On("Save", mock.Anything, mock.AnythingOfType("*quote.Quote")).Return(nil)
	f.publisher.On("Publish", mock.Anything, eventTypes(quote.EventTypeQuoteCreated)).Return(nil)

	resp, err := f.svc.Create(f.ctx, f.tenantID, CreateQuoteRequest{CustomerID: customer.ID, UserID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, "Gráfica Central", resp.Customer.Name)
	assert.Equal(t, "+55 11 98765-4321", resp.Customer.Phone)
	assert.Equal(t, f.open.ID, resp.Status.ID)
	assert.False(t, resp.Locked)
	f.repos.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestQuoteService_Create_UnknownCustomer(t *testing.T) {
	f := newQuoteFixture()
	id := uuid.New()
	f.repos.Customers.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.NewNotFoundError("customer", id))

	_, err := f.svc.Create(f.ctx, f.tenantID, CreateQuoteRequest{CustomerID: id})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestQuoteService_AddItem(t *testing.T) {
	t.Run("adds a line and recalculates under the quote lock", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		product, err := catalog.NewProduct(f.tenantID, "Adesivo vinil", catalog.ProductTypeProduct, decimal.NewFromInt(60), decimal.NewFromInt(100))
		require.NoError(t, err)

		f.repos.Products.On("FindByIDForTenant", mock.Anything, f.tenantID, product.ID).Return(product, nil)
		f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)

		resp, err := f.svc.AddItem(f.ctx, f.tenantID, q.ID, AddItemRequest{ProductID: product.ID, Quantity: 3})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, decimal.NewFromInt(300).Equal(resp.Subtotal))
		assert.True(t, decimal.NewFromInt(300).Equal(resp.TotalAmount))
		assert.True(t, decimal.NewFromInt(40).Equal(resp.Items[0].ProfitMargin))
		assert.Equal(t, []string{LockKey(q.ID)}, f.locker.keys)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		id := uuid.New()
		f.repos.Products.On("FindByIDForTenant", mock.Anything, f.tenantID, id).Return(nil, shared.NewNotFoundError("product", id))

		_, err := f.svc.AddItem(f.ctx, f.tenantID, q.ID, AddItemRequest{ProductID: id, Quantity: 1})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.repos.Quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("locked quote is forbidden before the product lookup", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		q.Status, q.StatusID = f.approved, f.approved.ID

		_, err := f.svc.AddItem(f.ctx, f.tenantID, q.ID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.repos.Products.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
		f.repos.Quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("busy lock", func(t *testing.T) {
		f := newQuoteFixture()
		f.svc.locker = busyLocker{}

		_, err := f.svc.AddItem(f.ctx, f.tenantID, uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})

		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestQuoteService_MutationSpans(t *testing.T) {
	t.Run("successful mutation", func(t *testing.T) {
		sr := recordSpans(t)
		f := newQuoteFixture()
		q := f.existingQuote(t)
		_, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Cartão de visita", SalePrice: decimal.NewFromInt(40)}, 1)
		require.NoError(t, err)
		f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		qty := 2
		_, err = f.svc.UpdateItem(f.ctx, f.tenantID, q.ID, q.Items[0].ID, UpdateItemRequest{Quantity: &qty})
		require.NoError(t, err)

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "quote.update_item", spans[0].Name())
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
		attrs := spanAttrs(spans[0])
		assert.Equal(t, q.ID.String(), attrs["quote_id"])
		assert.Equal(t, f.tenantID.String(), attrs["tenant_id"])
		require.Len(t, spans[0].Events(), 1)
		assert.Equal(t, "quote_saved", spans[0].Events()[0].Name)
	})

	t.Run("rejected mutation records the error", func(t *testing.T) {
		sr := recordSpans(t)
		f := newQuoteFixture()
		q := f.existingQuote(t)
		q.Status, q.StatusID = f.cancelled, f.cancelled.ID

		_, err := f.svc.RemoveItem(f.ctx, f.tenantID, q.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrForbidden)

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "quote.remove_item", spans[0].Name())
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})
}

func TestQuoteService_UpdateItem_MarginDrivesSale(t *testing.T) {
	f := newQuoteFixture()
	q := f.existingQuote(t)
	item, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Banner", CostPrice: decimal.NewFromInt(60), SalePrice: decimal.NewFromInt(80)}, 1)
	require.NoError(t, err)
	f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)

	margin := decimal.NewFromInt(40)
	resp, err := f.svc.UpdateItem(f.ctx, f.tenantID, q.ID, item.ID, UpdateItemRequest{ProfitMargin: &margin})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Items[0].UnitSalePrice))
	assert.True(t, decimal.NewFromInt(100).Equal(resp.TotalAmount))
}

func TestQuoteService_UpdateHeader(t *testing.T) {
	t.Run("approval publishes status change and approval", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		term, err := finance.NewPaymentTerm(f.tenantID, "3x", 3, 30, 30)
		require.NoError(t, err)
		termID := term.ID
		f.repos.QuoteStatuses.On("FindByIDForTenant", mock.Anything, f.tenantID, f.approved.ID).Return(f.approved, nil)
		f.repos.PaymentTerms.On("FindByIDForTenant", mock.Anything, f.tenantID, termID).Return(term, nil)
		f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)
		f.publisher.On("Publish", mock.Anything, eventTypes(quote.EventTypeQuoteStatusChanged, quote.EventTypeQuoteApproved)).Return(nil)

		statusID := f.approved.ID
		resp, err := f.svc.UpdateHeader(f.ctx, f.tenantID, q.ID, UpdateHeaderRequest{StatusID: &statusID, PaymentTermID: &termID})

		require.NoError(t, err)
		assert.True(t, resp.Locked)
		assert.NotNil(t, resp.ApprovedAt)
		assert.Equal(t, &termID, resp.PaymentTermID)
		f.publisher.AssertExpectations(t)
	})

	t.Run("cancel without reason is forbidden", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		f.repos.QuoteStatuses.On("FindByIDForTenant", mock.Anything, f.tenantID, f.cancelled.ID).Return(f.cancelled, nil)

		statusID := f.cancelled.ID
		_, err := f.svc.UpdateHeader(f.ctx, f.tenantID, q.ID, UpdateHeaderRequest{StatusID: &statusID})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("discount recalculates total", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		_, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Flyer", SalePrice: decimal.NewFromInt(50)}, 2)
		require.NoError(t, err)
		f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)

		discount := decimal.NewFromInt(10)
		resp, err := f.svc.UpdateHeader(f.ctx, f.tenantID, q.ID, UpdateHeaderRequest{DiscountPercentage: &discount})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.Subtotal))
		assert.True(t, decimal.NewFromInt(90).Equal(resp.TotalAmount))
	})

	locked := []struct {
		name   string
		status func(f *quoteFixture) *quote.Status
		req    func() UpdateHeaderRequest
	}{
		{"approved quote with unknown status", func(f *quoteFixture) *quote.Status { return f.approved }, func() UpdateHeaderRequest {
			id := uuid.New()
			return UpdateHeaderRequest{StatusID: &id}
		}},
		{"cancelled quote with unknown payment term", func(f *quoteFixture) *quote.Status { return f.cancelled }, func() UpdateHeaderRequest {
			id := uuid.New()
			return UpdateHeaderRequest{PaymentTermID: &id}
		}},
	}
	for _, tt := range locked {
		t.Run(tt.name+" is forbidden before lookups", func(t *testing.T) {
			f := newQuoteFixture()
			q := f.existingQuote(t)
			st := tt.status(f)
			q.Status, q.StatusID = st, st.ID

			_, err := f.svc.UpdateHeader(f.ctx, f.tenantID, q.ID, tt.req())

			assert.ErrorIs(t, err, shared.ErrForbidden)
			f.repos.QuoteStatuses.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
			f.repos.PaymentTerms.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
			f.repos.Quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestQuoteService_UploadItemAttachment(t *testing.T) {
	file := attachment.File{Filename: "arte final.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	t.Run("records key and removes previous artwork", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		item, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Banner", SalePrice: decimal.NewFromInt(10)}, 1)
		require.NoError(t, err)
		item.AttachmentPath = "old.pdf"
		itemID := item.ID

		f.storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), file.Data, "application/pdf").Return(nil)
		f.repos.Quotes.On("Save", mock.Anything, q).Return(nil)
		f.storage.On("DeleteObject", mock.Anything, "old.pdf").Return(nil)

		resp, err := f.svc.UploadItemAttachment(f.ctx, f.tenantID, q.ID, itemID, file)

		require.NoError(t, err)
		assert.Contains(t, resp.Items[0].AttachmentPath, "arte_final.pdf")
		f.storage.AssertExpectations(t)
	})

	t.Run("locked quote removes the uploaded object", func(t *testing.T) {
		f := newQuoteFixture()
		q := f.existingQuote(t)
		item, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Banner", SalePrice: decimal.NewFromInt(10)}, 1)
		require.NoError(t, err)
		itemID := item.ID
		q.Status, q.StatusID = f.approved, f.approved.ID

		var uploaded string
		f.storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), file.Data, "application/pdf").
			Run(func(args mock.Arguments) { uploaded = args.String(1) }).Return(nil)
		f.storage.On("DeleteObject", mock.Anything, mock.AnythingOfType("string")).Return(nil)

		_, err = f.svc.UploadItemAttachment(f.ctx, f.tenantID, q.ID, itemID, file)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.storage.AssertCalled(t, "DeleteObject", f.ctx, uploaded)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newQuoteFixture()
		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 down"))

		_, err := f.svc.UploadItemAttachment(f.ctx, f.tenantID, uuid.New(), uuid.New(), file)

		assert.Error(t, err)
		f.repos.Quotes.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatusService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(apptest.MockQuoteStatusRepository)
	svc := NewStatusService(repo)

	repo.On("FindAllForTenant", ctx, tenantID).Return([]quote.Status{}, nil).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*quote.Status")).Return(nil).Times(3)
	require.NoError(t, svc.SeedDefaults(ctx, tenantID))

	repo.On("FindAllForTenant", ctx, tenantID).Return([]quote.Status{*quote.DefaultStatuses(tenantID)[0]}, nil).Once()
	require.NoError(t, svc.SeedDefaults(ctx, tenantID))

	repo.AssertNumberOfCalls(t, "Save", 3)
}

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]string {
	out := map[string]string{}
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}
