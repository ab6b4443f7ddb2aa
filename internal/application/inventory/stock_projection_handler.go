package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const projectionLockTTL = 10 * time.Second

// StockProjectionHandler recomputes quantity_in_stock and cost_price of a
// product from its full ledger whenever a movement is recorded.
// Replaying the same event yields the same projection.
type StockProjectionHandler struct {
	scope  unitofwork.TransactionScope
	locker shared.Locker
	logger *zap.Logger
}

// NewStockProjectionHandler creates a new handler for stock movement events
func NewStockProjectionHandler(scope unitofwork.TransactionScope, locker shared.Locker, logger *zap.Logger) *StockProjectionHandler {
	return &StockProjectionHandler{scope: scope, locker: locker, logger: logger}
}

// HandlerName returns the stable name scoping idempotency keys
func (h *StockProjectionHandler) HandlerName() string {
	return "inventory.stock_projection"
}

// EventTypes returns the event types this handler is interested in
func (h *StockProjectionHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockMovementCreated}
}

// Handle processes a StockMovementCreatedEvent
func (h *StockProjectionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*inventory.StockMovementCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockMovementCreated, event.EventType())
	}
	tenantID := created.TenantID()

	var projection inventory.Projection
	err := shared.WithLock(ctx, h.locker, "product-stock:"+created.ProductID.String(), projectionLockTTL, func() error {
		return h.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
			product, err := repos.Products().FindByIDForUpdate(ctx, tenantID, created.ProductID)
			if err != nil {
				return err
			}
			movements, err := repos.Movements().FindAllByProduct(ctx, tenantID, created.ProductID)
			if err != nil {
				return fmt.Errorf("failed to load stock ledger: %w", err)
			}
			projection = inventory.Project(movements)
			product.ApplyStockProjection(projection.Quantity, projection.CostPrice)
			return repos.Products().SaveStockProjection(ctx, product)
		})
	})
	if err != nil {
		h.logger.Error("failed to project product stock",
			zap.String("product_id", created.ProductID.String()),
			zap.String("movement_id", created.MovementID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to project product stock: %w", err)
	}

	h.logger.Debug("product stock projected",
		zap.String("product_id", created.ProductID.String()),
		zap.Int("quantity_in_stock", projection.Quantity))
	return nil
}

var _ shared.NamedEventHandler = (*StockProjectionHandler)(nil)
