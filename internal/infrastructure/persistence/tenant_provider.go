package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tenantIDsSQL lists every tenant owning financial accounts, the only
// tenants the overdue sweep has work for.
const tenantIDsSQL = `SELECT tenant_id FROM accounts_receivable
UNION
SELECT tenant_id FROM accounts_payable`

// GormTenantProvider implements the background sweeps' TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the tenants with at least one account.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var raw []string
	if err := p.db.WithContext(ctx).Raw(tenantIDsSQL).Scan(&raw).Error; err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("tenant id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
