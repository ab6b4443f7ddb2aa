package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ReceivableGenerationHandler handles ProductionOrderCompletedEvent and
// creates the receivable with its installment schedule from the quote total
// and payment term.
type ReceivableGenerationHandler struct {
	scope     unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewReceivableGenerationHandler creates a new handler for production order completed events
func NewReceivableGenerationHandler(scope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *ReceivableGenerationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivableGenerationHandler{scope: scope, publisher: publisher, logger: logger, now: time.Now}
}

// HandlerName returns the stable name scoping idempotency keys
func (h *ReceivableGenerationHandler) HandlerName() string {
	return "finance.receivable_generation"
}

// EventTypes returns the event types this handler is interested in
func (h *ReceivableGenerationHandler) EventTypes() []string {
	return []string{production.EventTypeProductionOrderCompleted}
}

// Handle processes a ProductionOrderCompletedEvent
func (h *ReceivableGenerationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*production.ProductionOrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			production.EventTypeProductionOrderCompleted, event.EventType())
	}
	tenantID := completed.TenantID()

	ctx, span := telemetry.StartServiceSpan(ctx, "finance", "generate_receivable",
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute(telemetry.SpanAttrHandler, h.HandlerName()),
		telemetry.WithAttribute(telemetry.SpanAttrEventType, event.EventType()),
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProductionOrderID, completed.OrderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrQuoteID, completed.QuoteID.String()))
	defer span.End()

	h.logger.Info("processing production order completed event for receivable generation",
		zap.String("order_id", completed.OrderID.String()),
		zap.Int64("internal_id", completed.InternalID),
		zap.String("quote_id", completed.QuoteID.String()),
	)

	var receivable *finance.AccountReceivable
	err := h.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		exists, err := repos.Receivables().ExistsByProductionOrderID(ctx, tenantID, completed.OrderID)
		if err != nil {
			return fmt.Errorf("failed to check existing receivable: %w", err)
		}
		if exists {
			return nil
		}

		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, completed.QuoteID)
		if err != nil {
			return err
		}
		if q.PaymentTermID == nil {
			return shared.NewDependencyMissingError("quote has no payment term")
		}
		term, err := repos.PaymentTerms().FindByIDForTenant(ctx, tenantID, *q.PaymentTermID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDependencyMissingError("payment term of quote no longer exists")
		}
		if err != nil {
			return err
		}

		ar, err := finance.NewReceivableFromProduction(tenantID, finance.ReceivableSource{
			ProductionOrderID: completed.OrderID,
			OrderInternalID:   completed.InternalID,
			QuoteID:           q.ID,
			CustomerID:        q.CustomerID,
		}, q.TotalAmount, *term, h.now())
		if err != nil {
			return err
		}
		if err := repos.Receivables().Save(ctx, ar); err != nil {
			return err
		}
		receivable = ar
		return nil
	})

	switch {
	case errors.Is(err, shared.ErrDependencyMissing):
		telemetry.AddEvent(span, "receivable_skipped", "reason", err.Error())
		h.logger.Warn("receivable not generated",
			zap.String("order_id", completed.OrderID.String()),
			zap.String("quote_id", completed.QuoteID.String()),
			zap.Error(err))
		return nil
	case errors.Is(err, shared.ErrConflict):
		telemetry.AddEvent(span, "receivable_skipped", "reason", "generated concurrently")
		h.logger.Info("receivable already generated concurrently, skipping",
			zap.String("order_id", completed.OrderID.String()))
		return nil
	case err != nil:
		telemetry.RecordError(span, err)
		h.logger.Error("failed to generate receivable",
			zap.String("order_id", completed.OrderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to generate receivable: %w", err)
	case receivable == nil:
		telemetry.AddEvent(span, "receivable_skipped", "reason", "already exists")
		h.logger.Warn("receivable already exists for production order, skipping",
			zap.String("order_id", completed.OrderID.String()))
		return nil
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrReceivableID, receivable.ID.String())
	telemetry.AddEvent(span, "receivable_generated",
		"amount", receivable.TotalAmount.String(),
		"installments", len(receivable.Installments))
	telemetry.SetOK(span)

	h.logger.Info("account receivable generated",
		zap.String("receivable_id", receivable.ID.String()),
		zap.String("order_id", completed.OrderID.String()),
		zap.String("amount", receivable.TotalAmount.String()),
		zap.Int("installments", len(receivable.Installments)),
		zap.Time("due_date", receivable.DueDate),
	)
	if err := shared.PublishCollected(ctx, h.publisher, receivable); err != nil {
		h.logger.Error("failed to publish receivable events", zap.Error(err))
	}
	return nil
}

var _ shared.NamedEventHandler = (*ReceivableGenerationHandler)(nil)
