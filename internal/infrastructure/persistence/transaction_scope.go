package persistence

import (
	"context"

	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"gorm.io/gorm"
)

// GormTransactionScope implements unitofwork.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos unitofwork.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

// gormRepositories builds repositories bound to one *gorm.DB, which is the
// transaction inside Execute.
type gormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories returns repositories bound to db. Outside a transaction
// scope every call runs in its own implicit transaction.
func NewGormRepositories(db *gorm.DB) unitofwork.Repositories {
	return &gormRepositories{db: db}
}

func (r *gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.db)
}

func (r *gormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

func (r *gormRepositories) Quotes() quote.QuoteRepository {
	return NewGormQuoteRepository(r.db)
}

func (r *gormRepositories) QuoteStatuses() quote.StatusRepository {
	return NewGormQuoteStatusRepository(r.db)
}

func (r *gormRepositories) Orders() production.OrderRepository {
	return NewGormProductionOrderRepository(r.db)
}

func (r *gormRepositories) ProductionStatuses() production.StatusRepository {
	return NewGormProductionStatusRepository(r.db)
}

func (r *gormRepositories) Movements() inventory.MovementRepository {
	return NewGormStockMovementRepository(r.db)
}

func (r *gormRepositories) Receivables() finance.ReceivableRepository {
	return NewGormAccountReceivableRepository(r.db)
}

func (r *gormRepositories) Payables() finance.PayableRepository {
	return NewGormAccountPayableRepository(r.db)
}

func (r *gormRepositories) PaymentTerms() finance.PaymentTermRepository {
	return NewGormPaymentTermRepository(r.db)
}

var (
	_ unitofwork.TransactionScope = (*GormTransactionScope)(nil)
	_ unitofwork.Repositories     = (*gormRepositories)(nil)
)
