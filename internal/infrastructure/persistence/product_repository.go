package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func preloadComponents(db *gorm.DB) *gorm.DB {
	return db.Preload("Components", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByIDForTenant finds a product with its components
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), preloadComponents).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "product", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and locks its row
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Scopes(forUpdate, tenantScope(tenantID), preloadComponents).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "product", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the products that exist among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), preloadComponents).
		Where("id IN ?", ids).
		Find(&productModels).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

func (r *GormProductRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "name", "description"),
			equalFilters(filter.Filters, "type"),
		)
}

// FindAllForTenant returns a page of products
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	filter = filter.Normalize()
	var productModels []models.ProductModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, ProductSortFields, "created_at"), paginate(filter), preloadComponents).
		Find(&productModels).Error; err != nil {
		return nil, listError(err, "products")
	}
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// CountForTenant counts the products matching filter
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "products")
	}
	return count, nil
}

// Save creates or updates a product and replaces its components
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", model.ID).Delete(&models.ProductComponentModel{}).Error; err != nil {
			return err
		}
		if len(model.Components) == 0 {
			return nil
		}
		return tx.Create(&model.Components).Error
	})
	return translateError(err, "product", product.ID)
}

// SaveStockProjection writes only the projected stock columns
func (r *GormProductRepository) SaveStockProjection(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND id = ?", product.TenantID, product.ID).
		Updates(map[string]any{
			"quantity_in_stock": product.QuantityInStock,
			"cost_price":        product.CostPrice,
		})
	if result.Error != nil {
		return translateError(result.Error, "product", product.ID)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("product", product.ID)
	}
	return nil
}

// DeleteForTenant deletes a product and its components
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProductModel{})
		if result.Error != nil {
			return translateError(result.Error, "product", id)
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("product", id)
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductComponentModel{}).Error
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
