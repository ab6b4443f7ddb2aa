package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"same sentinel", ErrNotFound, ErrNotFound, true},
		{"contextual not found", NewNotFoundError("quote", "q-1"), ErrNotFound, true},
		{"wrapped forbidden", fmt.Errorf("update header: %w", NewForbiddenError("quote is locked")), ErrForbidden, true},
		{"different kind", NewConflictError("duplicate"), ErrNotFound, false},
		{"plain error", errors.New("boom"), ErrValidationFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeDependencyMissing, ErrorCode(fmt.Errorf("x: %w", NewDependencyMissingError("no payment term"))))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
}
