package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/users"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// RegisterUserRequest represents a registration request
type RegisterUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Name     string          `json:"name,omitempty" validate:"max=200"`
	Photo    string          `json:"photo,omitempty"`
	Role     models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=user seller"`
	Password string          `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// UserResponse represents a user in API responses. The password hash is never included.
type UserResponse struct {
	ID        string          `json:"_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name,omitempty"`
	Photo     string          `json:"photo,omitempty"`
	Role      models.UserRole `json:"role"`
	CreatedAt string          `json:"created_at"`
}

// RegisterUserResponse is returned by a successful registration
type RegisterUserResponse struct {
	InsertedID string       `json:"insertedId"`
	User       UserResponse `json:"user"`
}

// UserService defines the user operations the handler needs
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	HasRole(ctx context.Context, email string, role models.UserRole) (bool, error)
	SetRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleListUsers handles GET /users
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	resp := make([]UserResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, userToResponse(u))
	}
	writeResponse(h.logger, utils.WriteOK(w, resp))
}

// HandleRegister handles POST /users
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Register(r.Context(), users.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Photo:    req.Photo,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("user_id", user.ID))

	writeResponse(h.logger, utils.WriteCreated(w, RegisterUserResponse{
		InsertedID: user.ID,
		User:       userToResponse(user),
	}))
}

// HandleGetUser handles GET /users/{email}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r, h.logger)
	if !ok {
		return
	}
	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, userToResponse(user)))
}

// HandleCheckRole returns a handler for GET /users/{role}/{email} answering {<role>: bool}
func (h *UserHandler) HandleCheckRole(role models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := emailParam(w, r, h.logger)
		if !ok {
			return
		}
		ok, err := h.users.HasRole(r.Context(), email, role)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		writeResponse(h.logger, utils.WriteOK(w, map[string]bool{string(role): ok}))
	}
}

// HandleSetRole returns a handler for PATCH /users/{role}/{id}
func (h *UserHandler) HandleSetRole(role models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		user, err := h.users.SetRole(r.Context(), id, role)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}

		actor := ""
		if admin := middleware.GetUserFromContext(r.Context()); admin != nil {
			actor = admin.Email
		}
		h.logger.Info("role transition applied",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.String("user_id", id),
			zap.String("role", string(role)),
			zap.String("by", actor))

		writeResponse(h.logger, utils.WriteOK(w, userToResponse(user)))
	}
}

func userToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Photo:     u.Photo,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
