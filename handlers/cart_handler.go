package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/cart"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// AddCartItemRequest represents a product added to a cart
type AddCartItemRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	ProductID   string  `json:"product_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Company     string  `json:"company,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0,lte=100"`
	Image       string  `json:"image,omitempty"`
	SellerEmail string  `json:"seller_email,omitempty" validate:"omitempty,email"`
}

// CartService defines the cart operations the handler needs
type CartService interface {
	List(ctx context.Context, email string) ([]*models.CartItem, error)
	Add(ctx context.Context, in cart.AddInput) (*models.CartItem, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context, email string) (int64, error)
}

// CartHandler handles cart HTTP requests
type CartHandler struct {
	carts  CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// HandleListCart handles GET /cart?email=
func (h *CartHandler) HandleListCart(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmailQuery(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.carts.List(r.Context(), email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, items))
}

// HandleAddToCart handles POST /cart
func (h *CartHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	item, err := h.carts.Add(r.Context(), cart.AddInput(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteCreated(w, item))
}

// HandleRemoveFromCart handles DELETE /cart/{id}
func (h *CartHandler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.carts.Remove(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, map[string]int64{"deletedCount": 1}))
}

// HandleClearCart handles DELETE /cart?email=
func (h *CartHandler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	email, ok := requireEmailQuery(w, r, h.logger)
	if !ok {
		return
	}

	n, err := h.carts.Clear(r.Context(), email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, map[string]int64{"deletedCount": n}))
}

func requireEmailQuery(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeResponse(logger, utils.WriteBadRequest(w, "email query parameter is required", nil))
		return "", false
	}
	if err := utils.ValidateEmail(email); err != nil {
		writeResponse(logger, utils.WriteBadRequest(w, err.Error(), nil))
		return "", false
	}
	return email, true
}
