// Package unitofwork gives application services transactional access to every repository.
package unitofwork

import (
	"context"

	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
)

// TransactionScope runs a function with repositories sharing one database
// transaction. A returned error rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to every repository. Inside Execute all of
// them share the same transaction.
type Repositories interface {
	Products() catalog.ProductRepository
	Customers() partner.CustomerRepository
	Quotes() quote.QuoteRepository
	QuoteStatuses() quote.StatusRepository
	Orders() production.OrderRepository
	ProductionStatuses() production.StatusRepository
	Movements() inventory.MovementRepository
	Receivables() finance.ReceivableRepository
	Payables() finance.PayableRepository
	PaymentTerms() finance.PaymentTermRepository
}

// RepositorySet is a plain Repositories value
type RepositorySet struct {
	ProductRepo          catalog.ProductRepository
	CustomerRepo         partner.CustomerRepository
	QuoteRepo            quote.QuoteRepository
	QuoteStatusRepo      quote.StatusRepository
	OrderRepo            production.OrderRepository
	ProductionStatusRepo production.StatusRepository
	MovementRepo         inventory.MovementRepository
	ReceivableRepo       finance.ReceivableRepository
	PayableRepo          finance.PayableRepository
	PaymentTermRepo      finance.PaymentTermRepository
}

func (s *RepositorySet) Products() catalog.ProductRepository { return s.ProductRepo }
func (s *RepositorySet) Customers() partner.CustomerRepository { return s.CustomerRepo }
func (s *RepositorySet) Quotes() quote.QuoteRepository { return s.QuoteRepo }
func (s *RepositorySet) QuoteStatuses() quote.StatusRepository { return s.QuoteStatusRepo }
func (s *RepositorySet) Orders() production.OrderRepository { return s.OrderRepo }
func (s *RepositorySet) ProductionStatuses() production.StatusRepository { return s.ProductionStatusRepo }
func (s *RepositorySet) Movements() inventory.MovementRepository { return s.MovementRepo }
func (s *RepositorySet) Receivables() finance.ReceivableRepository { return s.ReceivableRepo }
func (s *RepositorySet) Payables() finance.PayableRepository { return s.PayableRepo }
func (s *RepositorySet) PaymentTerms() finance.PaymentTermRepository { return s.PaymentTermRepo }

// NoOpTransactionScope runs the function against fixed repositories without a transaction.
// Used in tests.
type NoOpTransactionScope struct {
	repos Repositories
}

func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

var (
	_ Repositories     = (*RepositorySet)(nil)
	_ TransactionScope = (*NoOpTransactionScope)(nil)
)
