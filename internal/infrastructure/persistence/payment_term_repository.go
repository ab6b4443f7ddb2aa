package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentTermRepository implements finance.PaymentTermRepository using GORM
type GormPaymentTermRepository struct {
	db *gorm.DB
}

// NewGormPaymentTermRepository creates a new GormPaymentTermRepository
func NewGormPaymentTermRepository(db *gorm.DB) *GormPaymentTermRepository {
	return &GormPaymentTermRepository{db: db}
}

// FindByIDForTenant finds a payment term
func (r *GormPaymentTermRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentTerm, error) {
	var model models.PaymentTermModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "payment term", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's payment terms by name
func (r *GormPaymentTermRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.PaymentTerm, error) {
	var rows []models.PaymentTermModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, listError(err, "payment terms")
	}
	terms := make([]finance.PaymentTerm, len(rows))
	for i := range rows {
		terms[i] = *rows[i].ToDomain()
	}
	return terms, nil
}

// Save creates or updates a payment term
func (r *GormPaymentTermRepository) Save(ctx context.Context, term *finance.PaymentTerm) error {
	model := models.PaymentTermModelFromDomain(term)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "payment term", term.ID)
}

// DeleteForTenant removes a payment term
func (r *GormPaymentTermRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Delete(&models.PaymentTermModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "payment term", id)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("payment term", id)
	}
	return nil
}

var _ finance.PaymentTermRepository = (*GormPaymentTermRepository)(nil)
