package catalog

import (
	"context"
	"time"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// ProductFilter narrows a product listing; empty fields match everything
type ProductFilter struct {
	Category    string
	SellerEmail string
}

// ProductInput holds the fields of a new product
type ProductInput struct {
	Name        string
	GenericName string
	Description string
	Category    string
	Company     string
	MassUnit    string
	Price       float64
	Discount    float64
	Image       string
	SellerEmail string
}

// ProductService manages product listings
type ProductService struct {
	products repositories.Collection[models.Product]
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products repositories.Collection[models.Product], logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// List returns the products matching filter
func (s *ProductService) List(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	f := repositories.Filter{}
	if filter.Category != "" {
		f["category"] = filter.Category
	}
	if filter.SellerEmail != "" {
		f["seller_email"] = filter.SellerEmail
	}

	products, err := s.products.Find(ctx, f)
	if err != nil {
		return nil, services.WrapInternal("failed to list products", err)
	}
	return products, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrProductNotFound, nil, "load product")
	}
	return product, nil
}

// Create stores a new product
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price < 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "price must not be negative", nil).
			WithDetail("price", in.Price)
	}
	if in.Discount < 0 || in.Discount > 100 {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "discount must be between 0 and 100", nil).
			WithDetail("discount", in.Discount)
	}

	product := &models.Product{
		Name:        in.Name,
		GenericName: in.GenericName,
		Description: in.Description,
		Category:    in.Category,
		Company:     in.Company,
		MassUnit:    in.MassUnit,
		Price:       in.Price,
		Discount:    in.Discount,
		Image:       in.Image,
		SellerEmail: in.SellerEmail,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.products.Insert(ctx, product); err != nil {
		return nil, services.WrapInternal("failed to create product", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("category", product.Category),
		zap.String("seller_email", product.SellerEmail))
	return product, nil
}
