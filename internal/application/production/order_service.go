package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles production order queries and status changes
type OrderService struct {
	scope     unitofwork.TransactionScope
	orderRepo production.OrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope unitofwork.TransactionScope,
	orderRepo production.OrderRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{scope: scope, orderRepo: orderRepo, publisher: publisher, logger: logger}
}

// GetByID retrieves a production order
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByQuoteID retrieves the production order of a quote
func (s *OrderService) GetByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByQuoteID(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves a page of production orders
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()
	if filter.StatusID != "" {
		f.Filters["status_id"] = filter.StatusID
	}
	if filter.AssignedUserID != "" {
		f.Filters["assigned_user_id"] = filter.AssignedUserID
	}
	if filter.CustomerID != "" {
		f.Filters["customer_id"] = filter.CustomerID
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// ChangeStatus moves the order through its state machine and publishes the
// resulting events after commit
func (s *OrderService) ChangeStatus(ctx context.Context, tenantID, orderID uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	var saved *production.ProductionOrder
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureTransitionable(); err != nil {
			return err
		}
		status, err := repos.ProductionStatuses().FindByIDForTenant(ctx, tenantID, req.StatusID)
		if err != nil {
			return err
		}
		if err := order.ChangeStatus(status, req.CancellationReason); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		saved = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("production order status changed",
		zap.String("order_id", saved.ID.String()),
		zap.Int64("internal_id", saved.InternalID),
		zap.String("status", saved.Status.Name),
	)
	if err := shared.PublishCollected(ctx, s.publisher, saved); err != nil {
		s.logger.Error("failed to publish production order events",
			zap.String("order_id", saved.ID.String()),
			zap.Error(err))
	}
	resp := ToOrderResponse(saved)
	return &resp, nil
}

// Assign sets or clears the responsible user
func (s *OrderService) Assign(ctx context.Context, tenantID, orderID uuid.UUID, req AssignRequest) (*OrderResponse, error) {
	var saved *production.ProductionOrder
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		order.Assign(req.UserID)
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		saved = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(saved)
	return &resp, nil
}
