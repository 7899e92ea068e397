package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/catalog"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

// CreateProductRequest represents a product listing request
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	GenericName string  `json:"generic_name,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category" validate:"required"`
	Company     string  `json:"company,omitempty"`
	MassUnit    string  `json:"mass_unit,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
	Image       string  `json:"image,omitempty"`
	SellerEmail string  `json:"seller_email,omitempty" validate:"omitempty,email"`
}

// CategoryService defines the category operations the handler needs
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, in catalog.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in catalog.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// ProductService defines the product operations the handler needs
type ProductService interface {
	List(ctx context.Context, filter catalog.ProductFilter) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (*models.Product, error)
}

// CatalogHandler handles category and product HTTP requests
type CatalogHandler struct {
	categories CategoryService
	products   ProductService
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(categories CategoryService, products ProductService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// HandleListCategories handles GET /categories
func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, list))
}

// HandleGetCategory handles GET /categories/{id}
func (h *CatalogHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, category))
}

// HandleCreateCategory handles POST /categories
func (h *CatalogHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	category, err := h.categories.Create(r.Context(), catalog.CategoryInput(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteCreated(w, category))
}

// HandleUpdateCategory handles PUT /categories/{id}
func (h *CatalogHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	category, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), catalog.CategoryInput(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, category))
}

// HandleDeleteCategory handles DELETE /categories/{id}
func (h *CatalogHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.categories.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, map[string]interface{}{"deleted": true, "_id": id}))
}

// HandleListProducts handles GET /products with optional ?category= and ?seller= filters
func (h *CatalogHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.products.List(r.Context(), catalog.ProductFilter{
		Category:    q.Get("category"),
		SellerEmail: q.Get("seller"),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, list))
}

// HandleGetProduct handles GET /products/{id}
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, product))
}

// HandleCreateProduct handles POST /products
func (h *CatalogHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	product, err := h.products.Create(r.Context(), catalog.ProductInput(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteCreated(w, product))
}
