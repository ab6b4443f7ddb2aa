package production

import (
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// StatusRole is the stable meaning of a tenant-defined production status
type StatusRole string

const (
	StatusRoleNone         StatusRole = "none"
	StatusRoleInProduction StatusRole = "in_production"
	StatusRoleCompleted    StatusRole = "completed"
	StatusRoleCancelled    StatusRole = "cancelled"
)

// Default catalog names
const (
	DefaultStatusWaiting      = "Aguardando"
	DefaultStatusInProduction = "Em Produção"
	DefaultStatusCompleted    = "Concluído"
	DefaultStatusCancelled    = "Cancelado"
)

// IsValid reports whether r is a known role
func (r StatusRole) IsValid() bool {
	switch r {
	case StatusRoleNone, StatusRoleInProduction, StatusRoleCompleted, StatusRoleCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether orders in this role accept no further transition
func (r StatusRole) IsTerminal() bool {
	return r == StatusRoleCompleted || r == StatusRoleCancelled
}

// Status is a row of the tenant's production status catalog
type Status struct {
	shared.BaseEntity
	TenantID  uuid.UUID
	Name      string
	Color     string
	SortOrder int
	Role      StatusRole
	IsDefault bool
}

// NewStatus creates a catalog row
func NewStatus(tenantID uuid.UUID, name, color string, sortOrder int, role StatusRole) (*Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("status name cannot be empty")
	}
	if role != "" && !role.IsValid() {
		return nil, shared.NewValidationError("unknown production status role: " + string(role))
	}
	return &Status{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Name:       name,
		Color:      color,
		SortOrder:  sortOrder,
		Role:       role,
	}, nil
}

// ResolvedRole returns the role flag. Rows without one (an empty role)
// fall back to the default names; an explicit none is kept.
func (s *Status) ResolvedRole() StatusRole {
	if s == nil {
		return StatusRoleNone
	}
	if s.Role != "" {
		return s.Role
	}
	switch {
	case shared.NameMatches(s.Name, DefaultStatusInProduction):
		return StatusRoleInProduction
	case shared.NameMatches(s.Name, DefaultStatusCompleted, "Finalizado"):
		return StatusRoleCompleted
	case shared.NameMatches(s.Name, DefaultStatusCancelled):
		return StatusRoleCancelled
	}
	return StatusRoleNone
}

// DefaultStatuses returns the catalog seeded for a new tenant
func DefaultStatuses(tenantID uuid.UUID) []*Status {
	waiting, _ := NewStatus(tenantID, DefaultStatusWaiting, "#64748b", 1, StatusRoleNone)
	waiting.IsDefault = true
	inProduction, _ := NewStatus(tenantID, DefaultStatusInProduction, "#f59e0b", 2, StatusRoleInProduction)
	completed, _ := NewStatus(tenantID, DefaultStatusCompleted, "#22c55e", 3, StatusRoleCompleted)
	cancelled, _ := NewStatus(tenantID, DefaultStatusCancelled, "#ef4444", 4, StatusRoleCancelled)
	return []*Status{waiting, inProduction, completed, cancelled}
}
