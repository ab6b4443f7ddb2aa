package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/apptest"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/production"
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
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type finFixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	repos     *apptest.Repos
	publisher *apptest.MockEventPublisher
	term      *finance.PaymentTerm
	quote     *quote.Quote
	event     *production.ProductionOrderCompletedEvent
}

func newFinFixture(t *testing.T) *finFixture {
	t.Helper()
	f := &finFixture{
		ctx:       context.Background(),
		tenantID:  uuid.New(),
		repos:     apptest.NewRepos(),
		publisher: new(apptest.MockEventPublisher),
	}

	var err error
	f.term, err = finance.NewPaymentTerm(f.tenantID, "30/60/90", 3, 30, 30)
	require.NoError(t, err)

	open := quote.DefaultStatuses(f.tenantID)[0]
	f.quote, err = quote.NewQuote(f.tenantID, uuid.New(), uuid.New(), quote.CustomerSnapshot{Name: "Cliente"}, open)
	require.NoError(t, err)
	f.quote.TotalAmount = decimal.NewFromInt(300)
	f.quote.PaymentTermID = &f.term.ID

	status := production.DefaultStatuses(f.tenantID)[0]
	order, err := production.NewProductionOrder(f.tenantID, 12, f.quote.ID, f.quote.CustomerID, status)
	require.NoError(t, err)
	f.event = production.NewProductionOrderCompletedEvent(order)
	return f
}

func (f *finFixture) handler() *ReceivableGenerationHandler {
	h := NewReceivableGenerationHandler(f.repos.Scope(), f.publisher, zap.NewNop())
	h.now = func() time.Time { return fixedNow }
	return h
}

func (f *finFixture) receivable(t *testing.T) *finance.AccountReceivable {
	t.Helper()
	ar, err := finance.NewReceivableFromProduction(f.tenantID, finance.ReceivableSource{
		ProductionOrderID: f.event.OrderID,
		OrderInternalID:   f.event.InternalID,
		QuoteID:           f.quote.ID,
		CustomerID:        f.quote.CustomerID,
	}, f.quote.TotalAmount, *f.term, fixedNow)
	require.NoError(t, err)
	ar.ClearDomainEvents()
	return ar
}

func TestReceivableGenerationHandler_CreatesInstallmentSchedule(t *testing.T) {
	f := newFinFixture(t)
	h := f.handler()

	f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(false, nil)
	f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, f.quote.ID).Return(f.quote, nil)
	f.repos.PaymentTerms.On("FindByIDForTenant", mock.Anything, f.tenantID, f.term.ID).Return(f.term, nil)
	var saved *finance.AccountReceivable
	f.repos.Receivables.On("Save", mock.Anything, mock.AnythingOfType("*finance.AccountReceivable")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*finance.AccountReceivable) }).
		Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, h.Handle(f.ctx, f.event))

	require.NotNil(t, saved)
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, finance.AccountStatusPending, saved.Status)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), saved.DueDate)
	require.Len(t, saved.Installments, 3)
	for i, inst := range saved.Installments {
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.True(t, inst.Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, fixedNow.AddDate(0, 0, 30+30*i), inst.DueDate)
	}
	require.NotNil(t, saved.ProductionOrderID)
	assert.Equal(t, f.event.OrderID, *saved.ProductionOrderID)
	assert.Contains(t, saved.Description, "12")
	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
	f.repos.AssertExpectations(t)
}

func TestReceivableGenerationHandler_Span(t *testing.T) {
	sr := recordSpans(t)
	f := newFinFixture(t)
	h := f.handler()

	f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(false, nil)
	f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, f.quote.ID).Return(f.quote, nil)
	f.repos.PaymentTerms.On("FindByIDForTenant", mock.Anything, f.tenantID, f.term.ID).Return(f.term, nil)
	var saved *finance.AccountReceivable
	f.repos.Receivables.On("Save", mock.Anything, mock.AnythingOfType("*finance.AccountReceivable")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*finance.AccountReceivable) }).
		Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, h.Handle(f.ctx, f.event))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "finance.generate_receivable", span.Name())
	assert.Equal(t, trace.SpanKindConsumer, span.SpanKind())
	assert.Equal(t, codes.Ok, span.Status().Code)
	attrs := spanAttrs(span)
	assert.Equal(t, h.HandlerName(), attrs["handler"])
	assert.Equal(t, production.EventTypeProductionOrderCompleted, attrs["event_type"])
	assert.Equal(t, f.event.OrderID.String(), attrs["production_order_id"])
	assert.Equal(t, saved.ID.String(), attrs["receivable_id"])
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "receivable_generated", span.Events()[0].Name)
}

func TestReceivableGenerationHandler_SkipsWhenReceivableExists(t *testing.T) {
	f := newFinFixture(t)
	h := f.handler()

	f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(true, nil)

	require.NoError(t, h.Handle(f.ctx, f.event))

	f.repos.Receivables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReceivableGenerationHandler_MissingPaymentTermIsLogged(t *testing.T) {
	t.Run("quote without term", func(t *testing.T) {
		f := newFinFixture(t)
		f.quote.PaymentTermID = nil
		h := f.handler()

		f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(false, nil)
		f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, f.quote.ID).Return(f.quote, nil)

		require.NoError(t, h.Handle(f.ctx, f.event))
		f.repos.Receivables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("term deleted", func(t *testing.T) {
		f := newFinFixture(t)
		h := f.handler()

		f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(false, nil)
		f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, f.quote.ID).Return(f.quote, nil)
		f.repos.PaymentTerms.On("FindByIDForTenant", mock.Anything, f.tenantID, f.term.ID).
			Return(nil, shared.NewNotFoundError("payment term", f.term.ID))

		require.NoError(t, h.Handle(f.ctx, f.event))
		f.repos.Receivables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReceivableGenerationHandler_ConcurrentDuplicateIsNoOp(t *testing.T) {
	f := newFinFixture(t)
	h := f.handler()

	f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).Return(false, nil)
	f.repos.Quotes.On("FindByIDForTenant", mock.Anything, f.tenantID, f.quote.ID).Return(f.quote, nil)
	f.repos.PaymentTerms.On("FindByIDForTenant", mock.Anything, f.tenantID, f.term.ID).Return(f.term, nil)
	f.repos.Receivables.On("Save", mock.Anything, mock.Anything).Return(shared.NewConflictError("receivable already exists"))

	require.NoError(t, h.Handle(f.ctx, f.event))
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReceivableGenerationHandler_PropagatesStorageErrors(t *testing.T) {
	f := newFinFixture(t)
	h := f.handler()

	f.repos.Receivables.On("ExistsByProductionOrderID", mock.Anything, f.tenantID, f.event.OrderID).
		Return(false, errors.New("connection reset"))

	err := h.Handle(f.ctx, f.event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReceivableGenerationHandler_RejectsOtherEvents(t *testing.T) {
	f := newFinFixture(t)
	h := f.handler()

	err := h.Handle(f.ctx, quote.NewQuoteApprovedEvent(f.quote))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected event type")
}

func TestPaymentService_InstallmentPaymentsSettleReceivable(t *testing.T) {
	f := newFinFixture(t)
	ar := f.receivable(t)
	svc := NewPaymentService(f.repos.Scope(), f.publisher, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	f.repos.Receivables.On("FindByIDForUpdate", mock.Anything, f.tenantID, ar.ID).Return(ar, nil)
	f.repos.Receivables.On("Save", mock.Anything, ar).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.RegisterInstallmentPayment(f.ctx, f.tenantID, ar.ID, ar.Installments[0].ID, InstallmentPaymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(finance.AccountStatusPartiallyPaid), resp.Status)
	assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.OutstandingAmount.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, resp.Installments[0].PaidAt)
	assert.Equal(t, fixedNow, *resp.Installments[0].PaidAt)

	_, err = svc.RegisterInstallmentPayment(f.ctx, f.tenantID, ar.ID, ar.Installments[0].ID, InstallmentPaymentRequest{})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	for _, inst := range ar.Installments[1:] {
		resp, err = svc.RegisterInstallmentPayment(f.ctx, f.tenantID, ar.ID, inst.ID, InstallmentPaymentRequest{})
		require.NoError(t, err)
	}
	assert.Equal(t, string(finance.AccountStatusPaid), resp.Status)
	assert.NotNil(t, resp.PaidAt)
	f.publisher.AssertNumberOfCalls(t, "Publish", 3)
}

func TestPaymentService_UnknownInstallment(t *testing.T) {
	f := newFinFixture(t)
	ar := f.receivable(t)
	svc := NewPaymentService(f.repos.Scope(), f.publisher, nil)

	f.repos.Receivables.On("FindByIDForUpdate", mock.Anything, f.tenantID, ar.ID).Return(ar, nil)

	_, err := svc.RegisterInstallmentPayment(f.ctx, f.tenantID, ar.ID, uuid.New(), InstallmentPaymentRequest{})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	f.repos.Receivables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_ReceivablePaymentPaths(t *testing.T) {
	t.Run("installment receivable rejects a direct payment", func(t *testing.T) {
		f := newFinFixture(t)
		ar := f.receivable(t)
		svc := NewPaymentService(f.repos.Scope(), f.publisher, zap.NewNop())

		f.repos.Receivables.On("FindByIDForUpdate", mock.Anything, f.tenantID, ar.ID).Return(ar, nil)

		_, err := svc.RegisterReceivablePayment(f.ctx, f.tenantID, ar.ID, PaymentRequest{Amount: decimal.NewFromInt(300)})

		assert.True(t, errors.Is(err, shared.ErrForbidden))
		assert.True(t, ar.PaidAmount.IsZero())
		f.repos.Receivables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("receivable without installments takes a direct payment", func(t *testing.T) {
		f := newFinFixture(t)
		ar := f.receivable(t)
		ar.Installments = nil
		svc := NewPaymentService(f.repos.Scope(), f.publisher, zap.NewNop())

		f.repos.Receivables.On("FindByIDForUpdate", mock.Anything, f.tenantID, ar.ID).Return(ar, nil)
		f.repos.Receivables.On("Save", mock.Anything, ar).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.RegisterReceivablePayment(f.ctx, f.tenantID, ar.ID, PaymentRequest{Amount: decimal.NewFromInt(300)})

		require.NoError(t, err)
		assert.Equal(t, string(finance.AccountStatusPaid), resp.Status)
		assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(300)))
	})
}

func TestPaymentService_PayablePayments(t *testing.T) {
	f := newFinFixture(t)
	ap, err := finance.NewAccountPayable(f.tenantID, finance.PayableInput{
		Supplier:    "Papelaria Central",
		Description: "Resmas A4",
		TotalAmount: decimal.NewFromInt(500),
		DueDate:     fixedNow.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	svc := NewPaymentService(f.repos.Scope(), f.publisher, zap.NewNop())

	f.repos.Payables.On("FindByIDForUpdate", mock.Anything, f.tenantID, ap.ID).Return(ap, nil)
	f.repos.Payables.On("Save", mock.Anything, ap).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.RegisterPayablePayment(f.ctx, f.tenantID, ap.ID, PaymentRequest{Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	assert.Equal(t, string(finance.AccountStatusPartiallyPaid), resp.Status)

	paidAt := fixedNow.AddDate(0, 0, 2)
	resp, err = svc.RegisterPayablePayment(f.ctx, f.tenantID, ap.ID, PaymentRequest{Amount: decimal.NewFromInt(300), PaidAt: &paidAt})
	require.NoError(t, err)
	assert.Equal(t, string(finance.AccountStatusPaid), resp.Status)
	require.NotNil(t, resp.PaidAt)
	assert.Equal(t, paidAt, *resp.PaidAt)

	_, err = svc.RegisterPayablePayment(f.ctx, f.tenantID, ap.ID, PaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestPayableService_PaidPayableCannotBeEdited(t *testing.T) {
	f := newFinFixture(t)
	ap, err := finance.NewAccountPayable(f.tenantID, finance.PayableInput{
		Supplier:    "Tintas SA",
		Description: "Toner",
		TotalAmount: decimal.NewFromInt(80),
		DueDate:     fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, ap.RegisterPayment(decimal.NewFromInt(80), fixedNow))

	svc := NewPayableService(f.repos.Payables, zap.NewNop())
	f.repos.Payables.On("FindByIDForTenant", mock.Anything, f.tenantID, ap.ID).Return(ap, nil)

	_, err = svc.Update(f.ctx, f.tenantID, ap.ID, PayableRequest{
		Supplier:    "Tintas SA",
		Description: "Toner preto",
		TotalAmount: decimal.NewFromInt(80),
		DueDate:     fixedNow,
	})
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	f.repos.Payables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReceivableService_ListDefaultsToDueDateOrder(t *testing.T) {
	f := newFinFixture(t)
	ar := f.receivable(t)
	svc := NewReceivableService(f.repos.Receivables)

	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "due_date" && filter.OrderDir == "asc" && filter.Filters["status"] == "pending"
	})
	f.repos.Receivables.On("FindAllForTenant", mock.Anything, f.tenantID, match).Return([]finance.AccountReceivable{*ar}, nil)
	f.repos.Receivables.On("CountForTenant", mock.Anything, f.tenantID, match).Return(int64(1), nil)

	items, total, err := svc.List(f.ctx, f.tenantID, AccountListFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Installments, 3)
}

type staticTenants []uuid.UUID

func (s staticTenants) GetActiveTenantIDs(context.Context) ([]uuid.UUID, error) { return s, nil }

func TestOverdueService_SweepsEveryTenant(t *testing.T) {
	f := newFinFixture(t)
	other := uuid.New()
	svc := NewOverdueService(f.repos.Receivables, f.repos.Payables, staticTenants{f.tenantID, other}, zap.NewNop())

	f.repos.Receivables.On("MarkOverdue", mock.Anything, f.tenantID, fixedNow).Return(int64(2), nil)
	f.repos.Payables.On("MarkOverdue", mock.Anything, f.tenantID, fixedNow).Return(int64(1), nil)
	f.repos.Receivables.On("MarkOverdue", mock.Anything, other, fixedNow).Return(int64(0), errors.New("timeout"))

	result, err := svc.MarkOverdueAllTenants(f.ctx, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, int64(2), result.Receivables)
	assert.Equal(t, int64(1), result.Payables)
}

func TestPaymentTermService_RejectsInvalidTerms(t *testing.T) {
	f := newFinFixture(t)
	svc := NewPaymentTermService(f.repos.PaymentTerms)

	_, err := svc.Create(f.ctx, f.tenantID, PaymentTermRequest{Name: "Zero", NumberOfInstallments: 0})
	assert.True(t, errors.Is(err, shared.ErrValidationFailed))

	f.repos.PaymentTerms.On("Save", mock.Anything, mock.AnythingOfType("*finance.PaymentTerm")).Return(nil)
	resp, err := svc.Create(f.ctx, f.tenantID, PaymentTermRequest{Name: "À vista", NumberOfInstallments: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NumberOfInstallments)
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
