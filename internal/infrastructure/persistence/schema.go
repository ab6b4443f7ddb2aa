package persistence

import (
	"fmt"

	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order
func Models() []any {
	return []any{
		&models.ProductModel{},
		&models.ProductComponentModel{},
		&models.CustomerModel{},
		&models.QuoteStatusModel{},
		&models.QuoteModel{},
		&models.QuoteItemModel{},
		&models.ProductionStatusModel{},
		&models.ProductionOrderModel{},
		&models.ProductionOrderSequenceModel{},
		&models.StockMovementModel{},
		&models.PaymentTermModel{},
		&models.AccountReceivableModel{},
		&models.ReceivableInstallmentModel{},
		&models.AccountPayableModel{},
	}
}

// CompositeIndexes are the multi-column unique indexes the repositories rely on
// for conflict detection. The SQL migrations create the same indexes.
var CompositeIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_production_orders_tenant_quote ON production_orders (tenant_id, quote_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_production_orders_tenant_internal ON production_orders (tenant_id, internal_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_receivable_tenant_order ON accounts_receivable (tenant_id, production_order_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_movements_tenant_reversal ON stock_movements (tenant_id, reversal_of)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_receivable_installments_number ON receivable_installments (receivable_id, installment_number)`,
}

// AutoMigrate creates the schema from the models. Production databases are
// migrated with the SQL files under migrations/; this is used by tests and
// throwaway development databases.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range CompositeIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
