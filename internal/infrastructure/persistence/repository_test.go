package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/inventory"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database. A single
// connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedQuoteStatuses(t *testing.T, db *gorm.DB, tenantID uuid.UUID) []*quote.Status {
	t.Helper()
	repo := NewGormQuoteStatusRepository(db)
	statuses := quote.DefaultStatuses(tenantID)
	for _, s := range statuses {
		require.NoError(t, repo.Save(context.Background(), s))
	}
	return statuses
}

func seedProductionStatuses(t *testing.T, db *gorm.DB, tenantID uuid.UUID) []*production.Status {
	t.Helper()
	repo := NewGormProductionStatusRepository(db)
	statuses := production.DefaultStatuses(tenantID)
	for _, s := range statuses {
		require.NoError(t, repo.Save(context.Background(), s))
	}
	return statuses
}

func newTestQuote(t *testing.T, tenantID uuid.UUID, status *quote.Status, customerName string) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(tenantID, uuid.New(), uuid.New(), quote.CustomerSnapshot{Name: customerName, Email: "client@example.com"}, status)
	require.NoError(t, err)
	return q
}

func TestGormProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "Business Card", catalog.ProductTypeProduct, decimal.NewFromInt(10), decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("finds product within tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Business Card", found.Name)
		assert.True(t, found.SalePrice.Equal(decimal.NewFromInt(25)))
	})

	t.Run("hides product from other tenants", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("saves stock projection only", func(t *testing.T) {
		cost := decimal.NewFromInt(12)
		product.ApplyStockProjection(40, &cost)
		require.NoError(t, repo.SaveStockProjection(ctx, product))

		found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, found.QuantityInStock)
		assert.True(t, found.CostPrice.Equal(cost))
	})

	t.Run("stock projection of unknown product is not found", func(t *testing.T) {
		ghost, err := catalog.NewProduct(tenantID, "Ghost", catalog.ProductTypeProduct, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.SaveStockProjection(ctx, ghost), shared.ErrNotFound)
	})

	t.Run("searches by name case-insensitively", func(t *testing.T) {
		products, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "business"})
		require.NoError(t, err)
		require.Len(t, products, 1)

		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{Search: "flyer"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("deletes product", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, product.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, product.ID), shared.ErrNotFound)
	})
}

func TestGormQuoteRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	statuses := seedQuoteStatuses(t, db, tenantID)

	q := newTestQuote(t, tenantID, statuses[0], "Acme Print")
	first, err := q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Flyer", CostPrice: decimal.NewFromInt(2), SalePrice: decimal.NewFromInt(5)}, 10)
	require.NoError(t, err)
	_, err = q.AddItem(quote.ProductInfo{ID: uuid.New(), Name: "Banner", CostPrice: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, q))

	t.Run("loads items and status", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, q.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		require.NotNil(t, found.Status)
		assert.Equal(t, statuses[0].ID, found.Status.ID)
		assert.Equal(t, "Acme Print", found.Customer.Name)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("deletes removed items", func(t *testing.T) {
		require.NoError(t, q.RemoveItem(first.ID))
		require.NoError(t, repo.Save(ctx, q))

		found, err := repo.FindByIDForUpdate(ctx, tenantID, q.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "Banner", found.Items[0].ProductName)

		var rows int64
		require.NoError(t, db.Table("quote_items").Where("quote_id = ?", q.ID).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})
}

func TestGormQuoteRepository_FindAllForTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	statuses := seedQuoteStatuses(t, db, tenantID)

	acme := newTestQuote(t, tenantID, statuses[0], "Acme Print")
	globex := newTestQuote(t, tenantID, statuses[0], "Globex")
	require.NoError(t, repo.Save(ctx, acme))
	require.NoError(t, repo.Save(ctx, globex))
	require.NoError(t, repo.Save(ctx, newTestQuote(t, uuid.New(), statuses[0], "Acme Other Tenant")))

	t.Run("searches the customer snapshot", func(t *testing.T) {
		quotes, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "acme"})
		require.NoError(t, err)
		require.Len(t, quotes, 1)
		assert.Equal(t, acme.ID, quotes[0].ID)
	})

	t.Run("filters by customer", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{Filters: map[string]any{"customer_id": globex.CustomerID.String()}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects malformed id filters", func(t *testing.T) {
		_, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Filters: map[string]any{"status_id": "not-a-uuid"}})
		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})
}

func TestGormQuoteStatusRepository_FindDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormQuoteStatusRepository(db)
	ctx := context.Background()

	t.Run("prefers the default flag", func(t *testing.T) {
		tenantID := uuid.New()
		statuses := seedQuoteStatuses(t, db, tenantID)

		found, err := repo.FindDefault(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, statuses[0].ID, found.ID)
	})

	t.Run("falls back to the lowest sort order", func(t *testing.T) {
		tenantID := uuid.New()
		late, err := quote.NewStatus(tenantID, "Late", "", 9, quote.StatusRoleNone)
		require.NoError(t, err)
		early, err := quote.NewStatus(tenantID, "Early", "", 2, quote.StatusRoleNone)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, late))
		require.NoError(t, repo.Save(ctx, early))

		found, err := repo.FindDefault(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, early.ID, found.ID)
	})

	t.Run("empty catalog is not found", func(t *testing.T) {
		_, err := repo.FindDefault(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductionOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductionOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	statuses := seedProductionStatuses(t, db, tenantID)

	t.Run("allocates sequential internal ids per tenant", func(t *testing.T) {
		otherTenant := uuid.New()
		for want := int64(1); want <= 3; want++ {
			got, err := repo.NextInternalID(ctx, tenantID)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		got, err := repo.NextInternalID(ctx, otherTenant)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	quoteID := uuid.New()
	order, err := production.NewProductionOrder(tenantID, 10, quoteID, uuid.New(), statuses[0])
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, order))

	t.Run("finds order by quote with status", func(t *testing.T) {
		found, err := repo.FindByQuoteID(ctx, tenantID, quoteID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		require.NotNil(t, found.Status)
		assert.Equal(t, statuses[0].Name, found.Status.Name)
	})

	t.Run("second order for the same quote conflicts", func(t *testing.T) {
		dup, err := production.NewProductionOrder(tenantID, 11, quoteID, uuid.New(), statuses[0])
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)
	})

	t.Run("unknown quote is not found", func(t *testing.T) {
		_, err := repo.FindByQuoteID(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("filters by status", func(t *testing.T) {
		orders, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Filters: map[string]any{"status_id": statuses[0].ID.String()}})
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestGormStockMovementRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	productID := uuid.New()

	cost := decimal.NewFromInt(3)
	purchase, err := inventory.NewStockMovement(tenantID, productID, 10, inventory.MovementPurchase, "", &cost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, purchase))

	sale, err := inventory.NewStockMovement(tenantID, productID, 4, inventory.MovementAdjustmentOut, "", nil)
	require.NoError(t, err)
	sale.CreatedAt = purchase.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, sale))

	t.Run("lists the ledger oldest first", func(t *testing.T) {
		movements, err := repo.FindAllByProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, purchase.ID, movements[0].ID)
		assert.Equal(t, -4, movements[1].Quantity)
	})

	t.Run("pages newest first", func(t *testing.T) {
		movements, err := repo.FindByProduct(ctx, tenantID, productID, shared.Filter{PageSize: 1})
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, sale.ID, movements[0].ID)

		count, err := repo.CountByProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("a movement is reversed once", func(t *testing.T) {
		reversal, err := inventory.NewReversal(sale)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, reversal))

		reversed, err := repo.HasReversal(ctx, tenantID, sale.ID)
		require.NoError(t, err)
		assert.True(t, reversed)

		again, err := inventory.NewReversal(sale)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, again), shared.ErrConflict)
	})
}

func TestGormAccountReceivableRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountReceivableRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	term, err := finance.NewPaymentTerm(tenantID, "3x", 3, 0, 30)
	require.NoError(t, err)
	source := finance.ReceivableSource{ProductionOrderID: uuid.New(), OrderInternalID: 7, QuoteID: uuid.New(), CustomerID: uuid.New()}
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	ar, err := finance.NewReceivableFromProduction(tenantID, source, decimal.NewFromInt(300), *term, issued)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ar))

	t.Run("loads installments in number order", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, ar.ID)
		require.NoError(t, err)
		require.Len(t, found.Installments, 3)
		for i, inst := range found.Installments {
			assert.Equal(t, i+1, inst.InstallmentNumber)
		}
	})

	t.Run("reports the receivable of an order", func(t *testing.T) {
		exists, err := repo.ExistsByProductionOrderID(ctx, tenantID, source.ProductionOrderID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByProductionOrderID(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("second receivable for an order conflicts", func(t *testing.T) {
		dup, err := finance.NewReceivableFromProduction(tenantID, source, decimal.NewFromInt(300), *term, issued)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)
	})

	t.Run("persists installment payments", func(t *testing.T) {
		found, err := repo.FindByIDForUpdate(ctx, tenantID, ar.ID)
		require.NoError(t, err)
		_, err = found.RegisterInstallmentPayment(found.Installments[0].ID, issued)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, found))

		reloaded, err := repo.FindByIDForTenant(ctx, tenantID, ar.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Installments[0].IsPaid())
		assert.Equal(t, finance.AccountStatusPartiallyPaid, reloaded.Status)
	})

	t.Run("marks open receivables overdue", func(t *testing.T) {
		marked, err := repo.MarkOverdue(ctx, tenantID, issued.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		found, err := repo.FindByIDForTenant(ctx, tenantID, ar.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.AccountStatusOverdue, found.Status)

		marked, err = repo.MarkOverdue(ctx, tenantID, issued.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(0), marked)
	})
}

func TestGormAccountPayableRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountPayableRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	paper, err := finance.NewAccountPayable(tenantID, finance.PayableInput{Supplier: "Paper Co", Description: "Paper stock", TotalAmount: decimal.NewFromInt(500), DueDate: due})
	require.NoError(t, err)
	ink, err := finance.NewAccountPayable(tenantID, finance.PayableInput{Supplier: "Ink Ltd", Description: "Ink", TotalAmount: decimal.NewFromInt(80), DueDate: due.AddDate(0, 2, 0)})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, paper))
	require.NoError(t, repo.Save(ctx, ink))

	t.Run("only past due payables become overdue", func(t *testing.T) {
		marked, err := repo.MarkOverdue(ctx, tenantID, due.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(1), marked)

		overdue, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Filters: map[string]any{"status": string(finance.AccountStatusOverdue)}})
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, paper.ID, overdue[0].ID)
	})

	t.Run("searches supplier", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{Search: "ink"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("deletes payable", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, ink.ID))
		_, err := repo.FindByIDForTenant(ctx, tenantID, ink.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, ink.ID), shared.ErrNotFound)
	})
}

func TestGormTenantProvider(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	ap, err := finance.NewAccountPayable(first, finance.PayableInput{Description: "Rent", TotalAmount: decimal.NewFromInt(1), DueDate: time.Now()})
	require.NoError(t, err)
	require.NoError(t, NewGormAccountPayableRepository(db).Save(ctx, ap))
	again, err := finance.NewAccountPayable(first, finance.PayableInput{Description: "Power", TotalAmount: decimal.NewFromInt(1), DueDate: time.Now()})
	require.NoError(t, err)
	require.NoError(t, NewGormAccountPayableRepository(db).Save(ctx, again))

	term, err := finance.NewPaymentTerm(second, "Cash", 1, 0, 0)
	require.NoError(t, err)
	ar, err := finance.NewReceivableFromProduction(second, finance.ReceivableSource{ProductionOrderID: uuid.New()}, decimal.NewFromInt(10), *term, time.Now())
	require.NoError(t, err)
	require.NoError(t, NewGormAccountReceivableRepository(db).Save(ctx, ar))

	ids, err := NewGormTenantProvider(db).GetActiveTenantIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)
}

func TestGormTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()

	newPayable := func() *finance.AccountPayable {
		ap, err := finance.NewAccountPayable(tenantID, finance.PayableInput{Description: "Toner", TotalAmount: decimal.NewFromInt(40), DueDate: time.Now()})
		require.NoError(t, err)
		return ap
	}

	t.Run("commits on success", func(t *testing.T) {
		ap := newPayable()
		err := scope.Execute(ctx, func(repos unitofwork.Repositories) error {
			return repos.Payables().Save(ctx, ap)
		})
		require.NoError(t, err)

		_, err = NewGormAccountPayableRepository(db).FindByIDForTenant(ctx, tenantID, ap.ID)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		ap := newPayable()
		err := scope.Execute(ctx, func(repos unitofwork.Repositories) error {
			if err := repos.Payables().Save(ctx, ap); err != nil {
				return err
			}
			return shared.NewConflictError("abort")
		})
		require.ErrorIs(t, err, shared.ErrConflict)

		_, err = NewGormAccountPayableRepository(db).FindByIDForTenant(ctx, tenantID, ap.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func newTestOrder(t *testing.T, tenantID uuid.UUID, internalID int64, quoteID uuid.UUID, statuses []*production.Status) *production.ProductionOrder {
	t.Helper()
	order, err := production.NewProductionOrder(tenantID, internalID, quoteID, uuid.New(), statuses[0])
	require.NoError(t, err)
	return order
}
