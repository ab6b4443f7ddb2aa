package production

import (
	"context"
	"fmt"
	"time"

	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaterialDeductionHandler consumes the bill of materials of every service on
// the quote when its production order enters production. It runs at most once
// per order, guarded by MaterialsDeductedAt under the order row lock.
type MaterialDeductionHandler struct {
	scope     unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewMaterialDeductionHandler creates a new handler for production started events
func NewMaterialDeductionHandler(scope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *MaterialDeductionHandler {
	return &MaterialDeductionHandler{scope: scope, publisher: publisher, logger: logger}
}

// HandlerName returns the stable name scoping idempotency keys
func (h *MaterialDeductionHandler) HandlerName() string {
	return "production.material_deduction"
}

// EventTypes returns the event types this handler is interested in
func (h *MaterialDeductionHandler) EventTypes() []string {
	return []string{production.EventTypeProductionStarted}
}

// Handle processes a ProductionStartedEvent. Failures roll back, are logged
// and swallowed so the status change that triggered them stands.
func (h *MaterialDeductionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	started, ok := event.(*production.ProductionStartedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			production.EventTypeProductionStarted, event.EventType())
	}
	tenantID := started.TenantID()

	ctx, span := telemetry.StartServiceSpan(ctx, "production", "deduct_materials",
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute(telemetry.SpanAttrHandler, h.HandlerName()),
		telemetry.WithAttribute(telemetry.SpanAttrEventType, event.EventType()),
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrProductionOrderID, started.OrderID.String()))
	defer span.End()

	var (
		movements []*inventory.StockMovement
		skipped   bool
	)
	err := h.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, tenantID, started.OrderID)
		if err != nil {
			return err
		}
		if order.MaterialsDeducted() {
			skipped = true
			return nil
		}
		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, order.QuoteID)
		if err != nil {
			return err
		}
		products, err := loadItemProducts(ctx, repos, q)
		if err != nil {
			return err
		}

		for _, item := range q.Items {
			product, ok := products[item.ProductID]
			if !ok || !product.HasBillOfMaterials() {
				continue
			}
			for _, component := range product.Components {
				m, err := inventory.NewStockMovement(tenantID, component.ComponentProductID,
					item.Quantity*component.QuantityUsed,
					inventory.MovementDeductionForProduction,
					inventory.ProductionDeductionNote(order.InternalID, item.ProductName), nil)
				if err != nil {
					return err
				}
				if err := repos.Movements().Create(ctx, m); err != nil {
					return fmt.Errorf("failed to record material deduction: %w", err)
				}
				movements = append(movements, m)
			}
		}

		if err := order.MarkMaterialsDeducted(time.Now()); err != nil {
			return err
		}
		return repos.Orders().Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		h.logger.Error("material deduction failed, rolled back",
			zap.String("order_id", started.OrderID.String()),
			zap.Int64("internal_id", started.InternalID),
			zap.Error(err))
		return nil
	}
	if skipped {
		telemetry.AddEvent(span, "materials_already_deducted")
		h.logger.Info("materials already deducted for production order, skipping",
			zap.String("order_id", started.OrderID.String()))
		return nil
	}

	telemetry.AddEvent(span, "materials_deducted", "stock_movements", len(movements))
	telemetry.SetOK(span)

	h.logger.Info("materials deducted for production order",
		zap.String("order_id", started.OrderID.String()),
		zap.Int64("internal_id", started.InternalID),
		zap.Int("stock_movements", len(movements)))

	collectors := make([]shared.EventCollector, len(movements))
	for i, m := range movements {
		collectors[i] = m
	}
	if err := shared.PublishCollected(ctx, h.publisher, collectors...); err != nil {
		h.logger.Error("failed to publish stock movement events", zap.Error(err))
	}
	return nil
}

var _ shared.NamedEventHandler = (*MaterialDeductionHandler)(nil)
