package users

import (
	"context"
	"errors"

	"github.com/medimart/medi-server/auth"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"github.com/medimart/medi-server/services/events"
	"go.uber.org/zap"
)

// RegisterInput is a new account. Admin is never self-assignable.
type RegisterInput struct {
	Email    string
	Name     string
	Photo    string
	Role     models.UserRole
	Password string
}

// Service manages user records and role transitions
type Service struct {
	users  repositories.Collection[models.User]
	events events.Emitter
	logger *zap.Logger
}

// NewService creates a new user service
func NewService(users repositories.Collection[models.User], emitter events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		events: emitter,
		logger: logger,
	}
}

// Register creates the user record for email. A second registration with the same email fails with a conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleSeller {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidRole.Message, nil).
			WithDetail("role", string(role))
	}

	_, err := s.users.FindOne(ctx, repositories.Filter{"email": in.Email})
	switch {
	case err == nil:
		s.logger.Info("duplicate registration rejected", zap.String("email", in.Email))
		return nil, services.ErrDuplicateEmail
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, services.WrapInternal("failed to check existing user", err)
	}

	user := models.NewUser(in.Email, in.Name, in.Photo, role)
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, services.WrapInternal("failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	// The unique index still catches a concurrent registration of the same email
	if _, err := s.users.Insert(ctx, user); err != nil {
		return nil, services.WrapStoreError(err, nil, services.ErrDuplicateEmail, "create user")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// List returns every user
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.Find(ctx, nil)
	if err != nil {
		return nil, services.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// GetByEmail returns the user record for email
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindOne(ctx, repositories.Filter{"email": email})
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrUserNotFound, nil, "load user")
	}
	return user, nil
}

// HasRole reports whether the user registered under email holds role. Unknown emails hold no role.
func (s *Service) HasRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	user, err := s.users.FindOne(ctx, repositories.Filter{"email": email})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, services.WrapInternal("failed to load user", err)
	}
	return user.HasRole(role), nil
}

// SetRole moves the user with id to role. Setting the role a user already holds succeeds without change.
func (s *Service) SetRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidRole.Message, nil).
			WithDetail("role", string(role))
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrUserNotFound, nil, "load user")
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.users.UpdateByID(ctx, id, repositories.Update{"role": role}); err != nil {
		return nil, services.WrapStoreError(err, services.ErrUserNotFound, nil, "update user role")
	}

	previous := user.Role
	user.Role = role

	s.logger.Info("user role changed",
		zap.String("user_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(role)))
	s.events.Emit(events.UserRoleChanged, events.RoleChange{
		UserID: id,
		Email:  user.Email,
		From:   string(previous),
		To:     string(role),
	})

	return user, nil
}
