package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QuoteApprovedHandler opens the production order of an approved quote and,
// in the same transaction, takes the physical products of the quote out of
// stock. Services are left to MaterialDeductionHandler.
type QuoteApprovedHandler struct {
	scope     unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewQuoteApprovedHandler creates a new handler for quote approved events
func NewQuoteApprovedHandler(scope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *QuoteApprovedHandler {
	return &QuoteApprovedHandler{scope: scope, publisher: publisher, logger: logger}
}

// HandlerName returns the stable name scoping idempotency keys
func (h *QuoteApprovedHandler) HandlerName() string {
	return "production.quote_approved"
}

// EventTypes returns the event types this handler is interested in
func (h *QuoteApprovedHandler) EventTypes() []string {
	return []string{quote.EventTypeQuoteApproved}
}

// Handle processes a QuoteApprovedEvent
func (h *QuoteApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*quote.QuoteApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			quote.EventTypeQuoteApproved, event.EventType())
	}
	tenantID := approved.TenantID()

	var (
		order     *production.ProductionOrder
		movements []*inventory.StockMovement
	)
	err := h.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		existing, err := repos.Orders().FindByQuoteID(ctx, tenantID, approved.QuoteID)
		if err == nil && existing != nil {
			return nil
		}
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to check existing production order: %w", err)
		}

		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, approved.QuoteID)
		if err != nil {
			return err
		}
		status, err := repos.ProductionStatuses().FindDefault(ctx, tenantID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDependencyMissingError("no production status configured for tenant")
		}
		if err != nil {
			return err
		}
		internalID, err := repos.Orders().NextInternalID(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to allocate production order number: %w", err)
		}

		o, err := production.NewProductionOrder(tenantID, internalID, q.ID, q.CustomerID, status)
		if err != nil {
			return err
		}
		o.SetCreatedBy(approved.UserID)

		movements, err = h.deductPhysicalItems(ctx, repos, q, o, approved.UserID)
		if err != nil {
			return err
		}
		if err := o.MarkStockDeducted(time.Now()); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})

	switch {
	case errors.Is(err, shared.ErrConflict):
		h.logger.Info("production order already created for quote, skipping",
			zap.String("quote_id", approved.QuoteID.String()))
		return nil
	case err != nil:
		h.logger.Error("failed to open production order",
			zap.String("quote_id", approved.QuoteID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to open production order: %w", err)
	case order == nil:
		h.logger.Info("production order already exists for quote, skipping",
			zap.String("quote_id", approved.QuoteID.String()))
		return nil
	}

	h.logger.Info("production order opened",
		zap.String("order_id", order.ID.String()),
		zap.Int64("internal_id", order.InternalID),
		zap.String("quote_id", approved.QuoteID.String()),
		zap.Int("stock_movements", len(movements)),
	)
	collectors := make([]shared.EventCollector, 0, len(movements)+1)
	collectors = append(collectors, order)
	for _, m := range movements {
		collectors = append(collectors, m)
	}
	if err := shared.PublishCollected(ctx, h.publisher, collectors...); err != nil {
		h.logger.Error("failed to publish production order events", zap.Error(err))
	}
	return nil
}

func (h *QuoteApprovedHandler) deductPhysicalItems(
	ctx context.Context,
	repos unitofwork.Repositories,
	q *quote.Quote,
	o *production.ProductionOrder,
	userID uuid.UUID,
) ([]*inventory.StockMovement, error) {
	products, err := loadItemProducts(ctx, repos, q)
	if err != nil {
		return nil, err
	}

	var movements []*inventory.StockMovement
	for _, item := range q.Items {
		product, ok := products[item.ProductID]
		if !ok {
			h.logger.Warn("quote item product no longer exists, not deducted",
				zap.String("quote_id", q.ID.String()),
				zap.String("product_id", item.ProductID.String()))
			continue
		}
		if product.IsService() {
			continue
		}
		m, err := inventory.NewStockMovement(o.TenantID, product.ID, item.Quantity,
			inventory.MovementDeductionForProduction,
			inventory.ApprovalDeductionNote(o.InternalID, item.ProductName), nil)
		if err != nil {
			return nil, err
		}
		m.SetCreatedBy(userID)
		if err := repos.Movements().Create(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to record stock deduction: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func loadItemProducts(ctx context.Context, repos unitofwork.Repositories, q *quote.Quote) (map[uuid.UUID]*catalog.Product, error) {
	if len(q.Items) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}
	ids := make([]uuid.UUID, 0, len(q.Items))
	for _, item := range q.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := repos.Products().FindByIDs(ctx, q.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote products: %w", err)
	}
	out := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		out[found[i].ID] = &found[i]
	}
	return out, nil
}

var _ shared.NamedEventHandler = (*QuoteApprovedHandler)(nil)
