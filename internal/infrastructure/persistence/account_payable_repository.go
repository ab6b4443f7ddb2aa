package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountPayableRepository implements finance.PayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

// FindByIDForTenant finds a payable
func (r *GormAccountPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "account payable", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a payable and locks its row
func (r *GormAccountPayableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	if err := r.db.WithContext(ctx).
		Scopes(forUpdate, tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "account payable", id)
	}
	return model.ToDomain(), nil
}

func (r *GormAccountPayableRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.AccountPayableModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "description", "supplier"),
			equalFilters(filter.Filters, "status"),
		)
}

// FindAllForTenant returns a page of payables
func (r *GormAccountPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, error) {
	filter = filter.Normalize()
	var rows []models.AccountPayableModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, AccountSortFields, "due_date"), paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, listError(err, "accounts payable")
	}
	payables := make([]finance.AccountPayable, len(rows))
	for i := range rows {
		payables[i] = *rows[i].ToDomain()
	}
	return payables, nil
}

// CountForTenant counts the payables matching filter
func (r *GormAccountPayableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "accounts payable")
	}
	return count, nil
}

// Save creates or updates a payable
func (r *GormAccountPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	model := models.AccountPayableModelFromDomain(ap)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "account payable", ap.ID)
}

// DeleteForTenant removes a payable
func (r *GormAccountPayableRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Delete(&models.AccountPayableModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "account payable", id)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("account payable", id)
	}
	return nil
}

// MarkOverdue flags every open payable of the tenant due before now
func (r *GormAccountPayableRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error) {
	return markOverdue(ctx, r.db, &models.AccountPayableModel{}, tenantID, now)
}

var _ finance.PayableRepository = (*GormAccountPayableRepository)(nil)
