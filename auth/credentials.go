package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a payload fails credential verification
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier decides whether a payload may be signed, and what gets signed
type CredentialVerifier interface {
	Verify(ctx context.Context, payload Payload) (Payload, error)
}

// TrustVerifier accepts every payload unchanged. Authentication is assumed to happen upstream.
type TrustVerifier struct{}

// Verify returns payload as is
func (TrustVerifier) Verify(ctx context.Context, payload Payload) (Payload, error) {
	return payload, nil
}

// PasswordVerifier requires a password matching the bcrypt hash on the user record
type PasswordVerifier struct {
	users  repositories.Collection[models.User]
	logger *zap.Logger
}

// NewPasswordVerifier creates a verifier backed by the users collection
func NewPasswordVerifier(users repositories.Collection[models.User], logger *zap.Logger) *PasswordVerifier {
	return &PasswordVerifier{users: users, logger: logger}
}

// Verify checks email and password and strips the password from the signed payload
func (v *PasswordVerifier) Verify(ctx context.Context, payload Payload) (Payload, error) {
	email := payload.Email()
	password, _ := payload["password"].(string)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := v.users.FindOne(ctx, repositories.Filter{"email": email})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			v.logger.Debug("credential check for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed := make(Payload, len(payload))
	for k, val := range payload {
		if k == "password" {
			continue
		}
		signed[k] = val
	}
	return signed, nil
}

// HashPassword returns the bcrypt hash stored on user records
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// NewCredentialVerifier selects the verifier for the configured mode
func NewCredentialVerifier(mode string, users repositories.Collection[models.User], logger *zap.Logger) (CredentialVerifier, error) {
	switch mode {
	case "", config.CredentialModeTrust:
		return TrustVerifier{}, nil
	case config.CredentialModePassword:
		return NewPasswordVerifier(users, logger), nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}
