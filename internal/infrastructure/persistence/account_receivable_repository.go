package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountReceivableRepository implements finance.ReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

func preloadInstallments(db *gorm.DB) *gorm.DB {
	return db.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installment_number ASC")
	})
}

func (r *GormAccountReceivableRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*finance.AccountReceivable, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = forUpdate(query)
	}
	var model models.AccountReceivableModel
	if err := query.
		Scopes(tenantScope(tenantID), preloadInstallments).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "account receivable", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a receivable with its installments
func (r *GormAccountReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds a receivable and locks its row
func (r *GormAccountReceivableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(ctx, tenantID, id, true)
}

// ExistsByProductionOrderID reports whether a receivable was generated for the order
func (r *GormAccountReceivableRepository) ExistsByProductionOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).
		Scopes(tenantScope(tenantID)).
		Where("production_order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check receivable for order: %w", err)
	}
	return count > 0, nil
}

func (r *GormAccountReceivableRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "description"),
			equalFilters(filter.Filters, "status", "customer_id"),
		)
}

// FindAllForTenant returns a page of receivables
func (r *GormAccountReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, error) {
	filter = filter.Normalize()
	var rows []models.AccountReceivableModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, AccountSortFields, "due_date"), paginate(filter), preloadInstallments).
		Find(&rows).Error; err != nil {
		return nil, listError(err, "accounts receivable")
	}
	receivables := make([]finance.AccountReceivable, len(rows))
	for i := range rows {
		receivables[i] = *rows[i].ToDomain()
	}
	return receivables, nil
}

// CountForTenant counts the receivables matching filter
func (r *GormAccountReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "accounts receivable")
	}
	return count, nil
}

// Save writes the receivable and its installments. The unique order index
// turns a second receivable for the same production order into a conflict.
func (r *GormAccountReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	model := models.AccountReceivableModelFromDomain(ar)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if len(model.Installments) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "due_date", "paid_at", "status"}),
		}).Create(&model.Installments).Error
	})
	if ar.ProductionOrderID != nil {
		return translateError(err, "account receivable for production order", *ar.ProductionOrderID)
	}
	return translateError(err, "account receivable", ar.ID)
}

// MarkOverdue flags every open receivable of the tenant due before now
func (r *GormAccountReceivableRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error) {
	return markOverdue(ctx, r.db, &models.AccountReceivableModel{}, tenantID, now)
}

var _ finance.ReceivableRepository = (*GormAccountReceivableRepository)(nil)

// markOverdue is the bulk status sweep shared by receivables and payables
func markOverdue(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(model).
		Scopes(tenantScope(tenantID)).
		Where("status IN ?", finance.OverdueCandidateStatuses()).
		Where("due_date < ?", now).
		Updates(map[string]any{
			"status":     finance.AccountStatusOverdue,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark overdue: %w", result.Error)
	}
	return result.RowsAffected, nil
}
