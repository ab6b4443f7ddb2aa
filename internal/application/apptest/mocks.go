// Package apptest holds testify mocks of the domain repositories and ports
// shared by the application service tests.
package apptest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveStockProjection(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockQuoteRepository is a mock implementation of quote.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

// MockQuoteStatusRepository is a mock implementation of quote.StatusRepository
type MockQuoteStatusRepository struct {
	mock.Mock
}

func (m *MockQuoteStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quote.Status, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Status), args.Error(1)
}

func (m *MockQuoteStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]quote.Status, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]quote.Status), args.Error(1)
}

func (m *MockQuoteStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*quote.Status, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Status), args.Error(1)
}

func (m *MockQuoteStatusRepository) Save(ctx context.Context, status *quote.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of production.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.ProductionOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*production.ProductionOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*production.ProductionOrder, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.ProductionOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) NextInternalID(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductionStatusRepository is a mock implementation of production.StatusRepository
type MockProductionStatusRepository struct {
	mock.Mock
}

func (m *MockProductionStatusRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Status, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Status), args.Error(1)
}

func (m *MockProductionStatusRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]production.Status, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]production.Status), args.Error(1)
}

func (m *MockProductionStatusRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*production.Status, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Status), args.Error(1)
}

func (m *MockProductionStatusRepository) Save(ctx context.Context, status *production.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindAllByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, productID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) HasReversal(ctx context.Context, tenantID, movementID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, movementID)
	return args.Bool(0), args.Error(1)
}

// MockReceivableRepository is a mock implementation of finance.ReceivableRepository
type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) ExistsByProductionOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	args := m.Called(ctx, ar)
	return args.Error(0)
}

func (m *MockReceivableRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPayableRepository is a mock implementation of finance.PayableRepository
type MockPayableRepository struct {
	mock.Mock
}

func (m *MockPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	args := m.Called(ctx, ap)
	return args.Error(0)
}

func (m *MockPayableRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPayableRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentTermRepository is a mock implementation of finance.PaymentTermRepository
type MockPaymentTermRepository struct {
	mock.Mock
}

func (m *MockPaymentTermRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentTerm, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentTerm), args.Error(1)
}

func (m *MockPaymentTermRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]finance.PaymentTerm, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.PaymentTerm), args.Error(1)
}

func (m *MockPaymentTermRepository) Save(ctx context.Context, term *finance.PaymentTerm) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockPaymentTermRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of attachment.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// Repos bundles one mock per repository behind a unitofwork.RepositorySet
type Repos struct {
	Products           *MockProductRepository
	Customers          *MockCustomerRepository
	Quotes             *MockQuoteRepository
	QuoteStatuses      *MockQuoteStatusRepository
	Orders             *MockOrderRepository
	ProductionStatuses *MockProductionStatusRepository
	Movements          *MockMovementRepository
	Receivables        *MockReceivableRepository
	Payables           *MockPayableRepository
	PaymentTerms       *MockPaymentTermRepository
}

// NewRepos creates a fresh set of repository mocks
func NewRepos() *Repos {
	return &Repos{
		Products:           new(MockProductRepository),
		Customers:          new(MockCustomerRepository),
		Quotes:             new(MockQuoteRepository),
		QuoteStatuses:      new(MockQuoteStatusRepository),
		Orders:             new(MockOrderRepository),
		ProductionStatuses: new(MockProductionStatusRepository),
		Movements:          new(MockMovementRepository),
		Receivables:        new(MockReceivableRepository),
		Payables:           new(MockPayableRepository),
		PaymentTerms:       new(MockPaymentTermRepository),
	}
}

// Set returns the mocks as a unitofwork.RepositorySet
func (r *Repos) Set() *unitofwork.RepositorySet {
	return &unitofwork.RepositorySet{
		ProductRepo:          r.Products,
		CustomerRepo:         r.Customers,
		QuoteRepo:            r.Quotes,
		QuoteStatusRepo:      r.QuoteStatuses,
		OrderRepo:            r.Orders,
		ProductionStatusRepo: r.ProductionStatuses,
		MovementRepo:         r.Movements,
		ReceivableRepo:       r.Receivables,
		PayableRepo:          r.Payables,
		PaymentTermRepo:      r.PaymentTerms,
	}
}

// Scope returns a no-op transaction scope over the mocks
func (r *Repos) Scope() *unitofwork.NoOpTransactionScope {
	return unitofwork.NewNoOpTransactionScope(r.Set())
}

// AssertExpectations asserts every mock in the set
func (r *Repos) AssertExpectations(t mock.TestingT) {
	r.Products.AssertExpectations(t)
	r.Customers.AssertExpectations(t)
	r.Quotes.AssertExpectations(t)
	r.QuoteStatuses.AssertExpectations(t)
	r.Orders.AssertExpectations(t)
	r.ProductionStatuses.AssertExpectations(t)
	r.Movements.AssertExpectations(t)
	r.Receivables.AssertExpectations(t)
	r.Payables.AssertExpectations(t)
	r.PaymentTerms.AssertExpectations(t)
}

// NoLocker is a shared.Locker that always grants the lock
type NoLocker struct{}

func (NoLocker) Obtain(context.Context, string, time.Duration) (shared.Lock, error) {
	return noLock{}, nil
}

type noLock struct{}

func (noLock) Release(context.Context) error { return nil }
