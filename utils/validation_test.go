package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Price    float64 `json:"price" validate:"gt=0"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=user seller"`
	Internal string  `json:"-" validate:"max=3"`
}

func TestValidateStruct(t *testing.T) {
	valid := func() testRequest {
		return testRequest{Name: "Napa", Email: "ana@example.com", Price: 10}
	}

	tests := []struct {
		name      string
		mutate    func(r *testRequest)
		wantField string
		wantMsg   string
	}{
		{name: "valid struct", mutate: func(r *testRequest) {}},
		{name: "missing name", mutate: func(r *testRequest) { r.Name = "" }, wantField: "name", wantMsg: "name is required"},
		{name: "invalid email", mutate: func(r *testRequest) { r.Email = "nope" }, wantField: "email", wantMsg: "email must be a valid email"},
		{name: "non positive price", mutate: func(r *testRequest) { r.Price = 0 }, wantField: "price", wantMsg: "price must be greater than 0"},
		{name: "unknown role", mutate: func(r *testRequest) { r.Role = "admin" }, wantField: "role", wantMsg: "role must be one of: user seller"},
		{name: "field without json name", mutate: func(r *testRequest) { r.Internal = "long" }, wantField: "Internal", wantMsg: "Internal must be at most 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := ValidateStruct(&req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			fields := GetValidationFields(err)
			assert.Equal(t, tt.wantMsg, fields[tt.wantField])
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "Validation failed"}
	assert.Equal(t, "Validation failed", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{}))
	assert.False(t, IsValidationError(errors.New("plain")))
	assert.Nil(t, GetValidationFields(errors.New("plain")))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"ana@example.com", false},
		{"first.last+tag@sub.example.co", false},
		{"", true},
		{"ana@", true},
		{"@example.com", true},
		{"ana example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
