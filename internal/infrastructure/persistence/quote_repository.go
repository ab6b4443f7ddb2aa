package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements quote.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func preloadQuote(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Status").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func (r *GormQuoteRepository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*quote.Quote, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = forUpdate(query)
	}
	var model models.QuoteModel
	if err := query.
		Scopes(tenantScope(tenantID), preloadQuote).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "quote", id)
	}
	return model.ToDomain()
}

// FindByIDForTenant finds a quote with items and status
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	return r.find(ctx, tenantID, id, false)
}

// FindByIDForUpdate finds a quote and locks its row
func (r *GormQuoteRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *GormQuoteRepository) listQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Scopes(
			tenantScope(tenantID),
			search(filter.Search, "CAST(customer_snapshot AS TEXT)", "notes"),
			equalFilters(filter.Filters, "customer_id", "status_id"),
		)
}

// FindAllForTenant returns a page of quotes
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	filter = filter.Normalize()
	var quoteModels []models.QuoteModel
	if err := r.listQuery(ctx, tenantID, filter).
		Scopes(orderBy(filter, QuoteSortFields, "created_at"), paginate(filter), preloadQuote).
		Find(&quoteModels).Error; err != nil {
		return nil, listError(err, "quotes")
	}
	quotes := make([]quote.Quote, 0, len(quoteModels))
	for i := range quoteModels {
		q, err := quoteModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, nil
}

// CountForTenant counts the quotes matching filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, tenantID, filter.Normalize()).Count(&count).Error; err != nil {
		return 0, listError(err, "quotes")
	}
	return count, nil
}

// Save writes the quote header, upserts its items and deletes the items
// no longer on the quote.
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	model, err := models.QuoteModelFromDomain(q)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		stale := tx.Where("quote_id = ?", model.ID)
		if len(model.Items) > 0 {
			ids := make([]uuid.UUID, len(model.Items))
			for i := range model.Items {
				ids[i] = model.Items[i].ID
			}
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.QuoteItemModel{}).Error; err != nil {
			return err
		}

		if len(model.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Items).Error
	})
	return translateError(err, "quote", q.ID)
}

var _ quote.QuoteRepository = (*GormQuoteRepository)(nil)

// GormQuoteStatusRepository implements quote.StatusRepository using GORM
type GormQuoteStatusRepository struct {
	db *gorm.DB
}

// NewGormQuoteStatusRepository creates a new GormQuoteStatusRepository
func NewGormQuoteStatusRepository(db *gorm.DB) *GormQuoteStatusRepository {
	return &GormQuoteStatusRepository{db: db}
}

// FindByIDForTenant finds a catalog row
func (r *GormQuoteStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Status, error) {
	var model models.QuoteStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "quote status", id)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns the catalog ordered by sort order
func (r *GormQuoteStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]quote.Status, error) {
	var statusModels []models.QuoteStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("sort_order ASC, name ASC").
		Find(&statusModels).Error; err != nil {
		return nil, listError(err, "quote statuses")
	}
	statuses := make([]quote.Status, len(statusModels))
	for i := range statusModels {
		statuses[i] = *statusModels[i].ToDomain()
	}
	return statuses, nil
}

// FindDefault returns the row flagged default, else the lowest sort order
func (r *GormQuoteStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*quote.Status, error) {
	var model models.QuoteStatusModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("is_default DESC, sort_order ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err, "default quote status", tenantID)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a catalog row
func (r *GormQuoteStatusRepository) Save(ctx context.Context, status *quote.Status) error {
	model := models.QuoteStatusModelFromDomain(status)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "quote status", status.ID)
}

var _ quote.StatusRepository = (*GormQuoteStatusRepository)(nil)
