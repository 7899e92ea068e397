package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/medimart/medi-server/repositories"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		assert.Equal(t, "not_found: user not found", ErrUserNotFound.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := NewDomainError(ErrorTypeInternal, "failed to list", errors.New("boom"))
		assert.Equal(t, "internal: failed to list (boom)", err.Error())
	})
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError(ErrorTypeNotFound, "product not found", repositories.ErrNotFound)

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.True(t, errors.Is(err, ErrUserNotFound), "matches by type")
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "unwraps to the store sentinel")
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeValidation, "bad", nil).WithDetail("field", "price")

	assert.Equal(t, map[string]interface{}{"field": "price"}, GetErrorDetails(err))
	assert.Nil(t, GetErrorDetails(ErrInvalidInput))
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{ErrCategoryNotFound, IsNotFoundError},
		{ErrInvalidRole, IsValidationError},
		{NewDomainError(ErrorTypeUnauthorized, "x", nil), IsUnauthorizedError},
		{ErrForbidden, IsForbiddenError},
		{ErrDuplicateEmail, IsConflictError},
		{ErrDatabaseError, IsInternalError},
		{ErrPaymentGateway, IsExternalError},
		{ErrUploadsDisabled, IsUnavailableError},
	}

	for _, tt := range tests {
		t.Run(string(GetErrorType(tt.err)), func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "payment not found", GetErrorMessage(ErrPaymentNotFound))
	assert.Equal(t, "", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}

func TestWrapStoreError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, WrapStoreError(nil, ErrUserNotFound, nil, "load user"))
	})

	t.Run("not found", func(t *testing.T) {
		err := WrapStoreError(fmt.Errorf("users: %w", repositories.ErrNotFound), ErrUserNotFound, nil, "load user")
		assert.True(t, IsNotFoundError(err))
		assert.Equal(t, "user not found", GetErrorMessage(err))
	})

	t.Run("duplicate", func(t *testing.T) {
		err := WrapStoreError(repositories.ErrDuplicateKey, nil, ErrDuplicateEmail, "insert user")
		assert.True(t, IsConflictError(err))
		assert.True(t, errors.Is(err, repositories.ErrDuplicateKey))
	})

	t.Run("other failures are internal", func(t *testing.T) {
		err := WrapStoreError(errors.New("timeout"), ErrUserNotFound, ErrDuplicateEmail, "load user")
		assert.True(t, IsInternalError(err))
		assert.Equal(t, "failed to load user", GetErrorMessage(err))
	})

	t.Run("not found without mapping is internal", func(t *testing.T) {
		err := WrapStoreError(repositories.ErrNotFound, nil, nil, "delete")
		assert.True(t, IsInternalError(err))
	})
}
