package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTrustVerifier(t *testing.T) {
	payload := Payload{"email": "ana@example.com", "anything": true}
	got, err := TrustVerifier{}.Verify(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPasswordVerifier(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	user := models.NewUser("ana@example.com", "Ana", "", models.RoleUser)
	user.PasswordHash = hash
	_, err = store.Users.Insert(ctx, user)
	require.NoError(t, err)

	_, err = store.Users.Insert(ctx, models.NewUser("nopass@example.com", "No Pass", "", ""))
	require.NoError(t, err)

	verifier := NewPasswordVerifier(store.Users, zap.NewNop())

	t.Run("valid password strips secret", func(t *testing.T) {
		signed, err := verifier.Verify(ctx, Payload{"email": "ana@example.com", "password": "correct horse", "name": "Ana"})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", signed.Email())
		assert.Equal(t, "Ana", signed["name"])
		assert.NotContains(t, signed, "password")
	})

	tests := []struct {
		name    string
		payload Payload
	}{
		{name: "wrong password", payload: Payload{"email": "ana@example.com", "password": "nope"}},
		{name: "unknown email", payload: Payload{"email": "ghost@example.com", "password": "x"}},
		{name: "missing password", payload: Payload{"email": "ana@example.com"}},
		{name: "user without password", payload: Payload{"email": "nopass@example.com", "password": "x"}},
		{name: "non string email", payload: Payload{"email": 42, "password": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(ctx, tt.payload)
			assert.True(t, errors.Is(err, ErrInvalidCredentials))
		})
	}
}

func TestNewCredentialVerifier(t *testing.T) {
	store := memory.NewStore()

	v, err := NewCredentialVerifier("trust", store.Users, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, TrustVerifier{}, v)

	v, err = NewCredentialVerifier("password", store.Users, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &PasswordVerifier{}, v)

	_, err = NewCredentialVerifier("oauth", store.Users, zap.NewNop())
	assert.Error(t, err)
}
