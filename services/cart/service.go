package cart

import (
	"context"
	"errors"
	"time"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// AddInput is a product line added to a cart
type AddInput struct {
	Email       string
	ProductID   string
	Name        string
	Company     string
	Price       float64
	Quantity    int
	Image       string
	SellerEmail string
}

// Service manages cart items
type Service struct {
	carts  repositories.Collection[models.CartItem]
	logger *zap.Logger
}

// NewService creates a new cart service
func NewService(carts repositories.Collection[models.CartItem], logger *zap.Logger) *Service {
	return &Service{carts: carts, logger: logger}
}

// List returns the cart items of email
func (s *Service) List(ctx context.Context, email string) ([]*models.CartItem, error) {
	items, err := s.carts.Find(ctx, repositories.Filter{"email": email})
	if err != nil {
		return nil, services.WrapInternal("failed to list cart items", err)
	}
	return items, nil
}

// Add puts a product into the cart. Adding a product already in the cart raises its
// quantity with a store-side increment, so concurrent adds of the same line all count.
func (s *Service) Add(ctx context.Context, in AddInput) (*models.CartItem, error) {
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	existing, err := s.carts.FindOne(ctx, repositories.Filter{"email": in.Email, "product_id": in.ProductID})
	if err == nil {
		if err := s.carts.IncrementByID(ctx, existing.ID, "quantity", int64(quantity)); err != nil {
			return nil, services.WrapStoreError(err, services.ErrCartItemNotFound, nil, "update cart item")
		}
		updated, err := s.carts.FindByID(ctx, existing.ID)
		if err != nil {
			return nil, services.WrapStoreError(err, services.ErrCartItemNotFound, nil, "reload cart item")
		}
		return updated, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, services.WrapInternal("failed to load cart item", err)
	}

	item := &models.CartItem{
		Email:       in.Email,
		ProductID:   in.ProductID,
		Name:        in.Name,
		Company:     in.Company,
		Price:       in.Price,
		Quantity:    quantity,
		Image:       in.Image,
		SellerEmail: in.SellerEmail,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.carts.Insert(ctx, item); err != nil {
		return nil, services.WrapInternal("failed to add cart item", err)
	}

	s.logger.Debug("cart item added", zap.String("email", in.Email), zap.String("product_id", in.ProductID))
	return item, nil
}

// Remove deletes one cart item
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.carts.DeleteByID(ctx, id); err != nil {
		return services.WrapStoreError(err, services.ErrCartItemNotFound, nil, "remove cart item")
	}
	return nil
}

// Clear deletes every cart item of email and returns how many were removed
func (s *Service) Clear(ctx context.Context, email string) (int64, error) {
	n, err := s.carts.DeleteMany(ctx, repositories.Filter{"email": email})
	if err != nil {
		return 0, services.WrapInternal("failed to clear cart", err)
	}
	s.logger.Debug("cart cleared", zap.String("email", email), zap.Int64("removed", n))
	return n, nil
}
