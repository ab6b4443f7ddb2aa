package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID for a specific tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "customer", id)
	}
	return model.ToDomain(), nil
}

func (r *GormCustomerRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "name", "email", "phone", "document"),
		)
}

// FindAllForTenant returns a page of customers
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	filter = filter.Normalize()
	var customerModels []models.CustomerModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, CustomerSortFields, "created_at"), paginate(filter)).
		Find(&customerModels).Error; err != nil {
		return nil, listError(err, "customers")
	}
	customers := make([]partner.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, nil
}

// CountForTenant counts the customers matching filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "customers")
	}
	return count, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "customer", customer.ID)
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
