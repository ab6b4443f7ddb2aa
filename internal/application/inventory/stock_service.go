package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService records manual movements and reads the stock ledger.
// Stock levels are never written here: the projection handler derives them
// from the StockMovementCreated events published after commit.
type StockService struct {
	scope     unitofwork.TransactionScope
	repos     unitofwork.Repositories
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(scope unitofwork.TransactionScope, repos unitofwork.Repositories, publisher shared.EventPublisher, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{scope: scope, repos: repos, publisher: publisher, logger: logger}
}

// RecordMovement appends a user-created movement to a product's ledger
func (s *StockService) RecordMovement(ctx context.Context, tenantID uuid.UUID, req RecordMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(req.Type)
	if !movementType.IsUserCreatable() {
		return nil, shared.NewValidationError("movement type " + req.Type + " cannot be recorded manually")
	}

	var created *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Products().FindByIDForTenant(ctx, tenantID, req.ProductID); err != nil {
			return err
		}
		m, err := inventory.NewStockMovement(tenantID, req.ProductID, req.Quantity, movementType, req.Notes, req.CostPrice)
		if err != nil {
			return err
		}
		m.SetCreatedBy(req.CreatedBy)
		if err := repos.Movements().Create(ctx, m); err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	resp := ToMovementResponse(created)
	return &resp, nil
}

// ReverseMovement appends the movement cancelling movementID. A movement is
// reversed at most once; the product row lock serializes concurrent attempts.
func (s *StockService) ReverseMovement(ctx context.Context, tenantID, movementID, userID uuid.UUID) (*MovementResponse, error) {
	var created *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		original, err := repos.Movements().FindByIDForTenant(ctx, tenantID, movementID)
		if err != nil {
			return err
		}
		if _, err := repos.Products().FindByIDForUpdate(ctx, tenantID, original.ProductID); err != nil {
			return err
		}
		reversed, err := repos.Movements().HasReversal(ctx, tenantID, movementID)
		if err != nil {
			return err
		}
		if reversed {
			return shared.NewConflictError("movement was already reversed")
		}
		m, err := inventory.NewReversal(original)
		if err != nil {
			return err
		}
		m.SetCreatedBy(userID)
		if err := repos.Movements().Create(ctx, m); err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	resp := ToMovementResponse(created)
	return &resp, nil
}

// ListMovements returns a page of a product's ledger, newest first
func (s *StockService) ListMovements(ctx context.Context, tenantID, productID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	movements, err := s.repos.Movements().FindByProduct(ctx, tenantID, productID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Movements().CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out, total, nil
}

// GetStock returns the projected stock of a product
func (s *StockService) GetStock(ctx context.Context, tenantID, productID uuid.UUID) (*StockResponse, error) {
	product, err := s.repos.Products().FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return &StockResponse{
		ProductID:       product.ID,
		ProductName:     product.Name,
		QuantityInStock: product.QuantityInStock,
		CostPrice:       product.CostPrice,
	}, nil
}

func (s *StockService) publish(ctx context.Context, m *inventory.StockMovement) {
	if err := shared.PublishCollected(ctx, s.publisher, m); err != nil {
		s.logger.Error("failed to publish stock movement event",
			zap.String("movement_id", m.ID.String()),
			zap.Error(err))
	}
}
