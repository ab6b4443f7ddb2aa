package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextInternalIDSQL bumps the tenant's counter atomically. The row lock taken
// by the upsert serialises concurrent callers on PostgreSQL.
const nextInternalIDSQL = `INSERT INTO production_order_sequences (tenant_id, last_value) VALUES (?, 1)
ON CONFLICT (tenant_id) DO UPDATE SET last_value = production_order_sequences.last_value + 1
RETURNING last_value`

// GormProductionOrderRepository implements production.OrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

func preloadOrderStatus(db *gorm.DB) *gorm.DB {
	return db.Preload("Status")
}

func (r *GormProductionOrderRepository) first(query *gorm.DB, resourceID any, conds ...any) (*production.ProductionOrder, error) {
	var model models.ProductionOrderModel
	if err := query.Scopes(preloadOrderStatus).First(&model, conds...).Error; err != nil {
		return nil, translateError(err, "production order", resourceID)
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an order with its status
func (r *GormProductionOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.ProductionOrder, error) {
	return r.first(r.db.WithContext(ctx).Scopes(tenantScope(tenantID)), id, "id = ?", id)
}

// FindByIDForUpdate finds an order and locks its row
func (r *GormProductionOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*production.ProductionOrder, error) {
	return r.first(r.db.WithContext(ctx).Scopes(forUpdate, tenantScope(tenantID)), id, "id = ?", id)
}

// FindByQuoteID finds the order generated from a quote
func (r *GormProductionOrderRepository) FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*production.ProductionOrder, error) {
	return r.first(r.db.WithContext(ctx).Scopes(tenantScope(tenantID)), quoteID, "quote_id = ?", quoteID)
}

func (r *GormProductionOrderRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductionOrderModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "notes"),
			equalFilters(filter.Filters, "status_id", "assigned_user_id", "customer_id"),
		)
}

// FindAllForTenant returns a page of orders
func (r *GormProductionOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.ProductionOrder, error) {
	filter = filter.Normalize()
	var orderModels []models.ProductionOrderModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, ProductionOrderSortFields, "created_at"), paginate(filter), preloadOrderStatus).
		Find(&orderModels).Error; err != nil {
		return nil, listError(err, "production orders")
	}
	orders := make([]production.ProductionOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts the orders matching filter
func (r *GormProductionOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "production orders")
	}
	return count, nil
}

// Save creates or updates an order. The unique quote index turns a second
// order for the same quote into a conflict.
func (r *GormProductionOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	model := models.ProductionOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
	return translateError(err, "production order for quote", order.QuoteID)
}

// NextInternalID allocates the next sequential number of the tenant
func (r *GormProductionOrderRepository) NextInternalID(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).Raw(nextInternalIDSQL, tenantID).Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("next production order id: %w", err)
	}
	return next, nil
}

var _ production.OrderRepository = (*GormProductionOrderRepository)(nil)

// GormProductionStatusRepository implements production.StatusRepository using GORM
type GormProductionStatusRepository struct {
	db *gorm.DB
}

// NewGormProductionStatusRepository creates a new GormProductionStatusRepository
func NewGormProductionStatusRepository(db *gorm.DB) *GormProductionStatusRepository {
	return &GormProductionStatusRepository{db: db}
}

// FindByIDForTenant finds a catalog row
func (r *GormProductionStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Status, error) {
	var model models.ProductionStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "production status", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns the catalog ordered by sort order
func (r *GormProductionStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]production.Status, error) {
	var statusModels []models.ProductionStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("sort_order ASC, name ASC").
		Find(&statusModels).Error; err != nil {
		return nil, listError(err, "production statuses")
	}
	statuses := make([]production.Status, len(statusModels))
	for i := range statusModels {
		statuses[i] = *statusModels[i].ToDomain()
	}
	return statuses, nil
}

// FindDefault returns the row flagged default, else the lowest sort order
func (r *GormProductionStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*production.Status, error) {
	var model models.ProductionStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("is_default DESC, sort_order ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err, "default production status", tenantID)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a catalog row
func (r *GormProductionStatusRepository) Save(ctx context.Context, status *production.Status) error {
	model := models.ProductionStatusModelFromDomain(status)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "production status", status.ID)
}

var _ production.StatusRepository = (*GormProductionStatusRepository)(nil)
