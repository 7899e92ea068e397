// Package catalog manages medicine categories and product listings.
package catalog

import (
	"context"
	"time"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"go.uber.org/zap"
)

// CategoryInput holds the editable fields of a category
type CategoryInput struct {
	Name        string
	Image       string
	Description string
}

// CategoryService manages categories
type CategoryService struct {
	categories repositories.Collection[models.Category]
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repositories.Collection[models.Category], logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// List returns every category
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categories.Find(ctx, nil)
	if err != nil {
		return nil, services.WrapInternal("failed to list categories", err)
	}
	return categories, nil
}

// Get returns one category
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrCategoryNotFound, nil, "load category")
	}
	return category, nil
}

// Create stores a new category
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.categories.Insert(ctx, category); err != nil {
		return nil, services.WrapInternal("failed to create category", err)
	}

	s.logger.Info("category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// Update replaces the editable fields of a category
func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	err := s.categories.UpdateByID(ctx, id, repositories.Update{
		"name":        in.Name,
		"image":       in.Image,
		"description": in.Description,
	})
	if err != nil {
		return nil, services.WrapStoreError(err, services.ErrCategoryNotFound, nil, "update category")
	}
	return s.Get(ctx, id)
}

// Delete removes a category. Products keep their category name.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.DeleteByID(ctx, id); err != nil {
		return services.WrapStoreError(err, services.ErrCategoryNotFound, nil, "delete category")
	}
	s.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}
