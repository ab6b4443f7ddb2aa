package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.MovementRepository using GORM.
// Rows are only ever inserted.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement. A second reversal of the same movement is a conflict.
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	model := models.StockMovementModelFromDomain(movement)
	err := r.db.WithContext(ctx).Create(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && model.ReversalOf != nil {
		return shared.NewConflictError(fmt.Sprintf("movement %s has already been reversed", *model.ReversalOf))
	}
	return translateError(err, "stock movement", movement.ID)
}

// FindByIDForTenant finds a movement
func (r *GormStockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMovement, error) {
	var model models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "stock movement", id)
	}
	return model.ToDomain(), nil
}

func (r *GormStockMovementRepository) productQuery(ctx context.Context, tenantID, productID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Scopes(tenantScope(tenantID)).
		Where("product_id = ?", productID)
}

func movementsToDomain(rows []models.StockMovementModel) []inventory.StockMovement {
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements
}

// FindAllByProduct returns the full ledger of a product, oldest first
func (r *GormStockMovementRepository) FindAllByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.productQuery(ctx, tenantID, productID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return movementsToDomain(rows), nil
}

// FindByProduct returns a page of a product's ledger, newest first unless
// the filter asks otherwise
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	filter = filter.Normalize()
	var rows []models.StockMovementModel
	if err := r.productQuery(ctx, tenantID, productID).
		Scopes(
			equalFilters(filter.Filters, "type"),
			orderBy(filter, StockMovementSortFields, "created_at"),
			paginate(filter),
		).
		Find(&rows).Error; err != nil {
		return nil, listError(err, "stock movements")
	}
	return movementsToDomain(rows), nil
}

// CountByProduct counts a product's movements
func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.productQuery(ctx, tenantID, productID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return count, nil
}

// HasReversal reports whether movementID has been reversed
func (r *GormStockMovementRepository) HasReversal(ctx context.Context, tenantID, movementID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Scopes(tenantScope(tenantID)).
		Where("reversal_of = ?", movementID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check reversal: %w", err)
	}
	return count > 0, nil
}

var _ inventory.MovementRepository = (*GormStockMovementRepository)(nil)
