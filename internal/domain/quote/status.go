package quote

import (
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// StatusRole is the stable meaning of a tenant-defined quote status
type StatusRole string

const (
	StatusRoleNone      StatusRole = "none"
	StatusRoleApproved  StatusRole = "approved"
	StatusRoleCancelled StatusRole = "cancelled"
)

// Default catalog names, used to resolve rows that predate the role flag
const (
	DefaultStatusOpen      = "Em aberto"
	DefaultStatusApproved  = "Aprovado"
	DefaultStatusCancelled = "Cancelado"
)

// IsValid reports whether r is a known role
func (r StatusRole) IsValid() bool {
	switch r {
	case StatusRoleNone, StatusRoleApproved, StatusRoleCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether quotes in this role are locked
func (r StatusRole) IsTerminal() bool {
	return r == StatusRoleApproved || r == StatusRoleCancelled
}

// Status is a row of the tenant's quote status catalog
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
		return nil, shared.NewValidationError("unknown quote status role: " + string(role))
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
	case shared.NameMatches(s.Name, DefaultStatusApproved):
		return StatusRoleApproved
	case shared.NameMatches(s.Name, DefaultStatusCancelled):
		return StatusRoleCancelled
	}
	return StatusRoleNone
}

// DefaultStatuses returns the catalog seeded for a new tenant
func DefaultStatuses(tenantID uuid.UUID) []*Status {
	open, _ := NewStatus(tenantID, DefaultStatusOpen, "#3b82f6", 1, StatusRoleNone)
	open.IsDefault = true
	approved, _ := NewStatus(tenantID, DefaultStatusApproved, "#22c55e", 2, StatusRoleApproved)
	cancelled, _ := NewStatus(tenantID, DefaultStatusCancelled, "#ef4444", 3, StatusRoleCancelled)
	return []*Status{open, approved, cancelled}
}
