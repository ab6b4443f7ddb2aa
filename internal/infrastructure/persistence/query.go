package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateError maps gorm errors onto domain error kinds
func translateError(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError(fmt.Sprintf("%s %v already exists", resource, id))
	}
	return fmt.Errorf("%s: %w", resource, err)
}

// forUpdate adds a row lock held until the surrounding transaction ends.
// The sqlite dialect drops the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func tenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// paginate applies the filter's page window
func paginate(f shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// orderBy applies a whitelisted sort column and direction
func orderBy(f shared.Filter, allowed map[string]bool, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		return db.Order(field + " " + ValidateSortOrder(f.OrderDir))
	}
}

// search matches the term case-insensitively against any of the columns
func search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// equalFilters applies the whitelisted equality filters. Keys ending in _id
// must hold a UUID; a malformed one is reported through db.Error.
func equalFilters(filters map[string]any, allowed ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range allowed {
			value, ok := filters[key]
			if !ok || value == nil || value == "" {
				continue
			}
			if strings.HasSuffix(key, "_id") {
				id, err := toUUID(value)
				if err != nil {
					_ = db.AddError(shared.NewValidationError(fmt.Sprintf("invalid %s filter", key)))
					return db
				}
				value = id
			}
			db = db.Where(key+" = ?", value)
		}
		return db
	}
}

func toUUID(v any) (uuid.UUID, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case *uuid.UUID:
		if id == nil {
			return uuid.Nil, errors.New("nil id")
		}
		return *id, nil
	case string:
		return uuid.Parse(id)
	}
	return uuid.Nil, fmt.Errorf("unsupported id type %T", v)
}

// listError unwraps the validation error added by equalFilters
func listError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrValidationFailed) {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
	}
	return fmt.Errorf("list %s: %w", resource, err)
}
