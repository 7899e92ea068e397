package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories/memory"
	"github.com/medimart/medi-server/services/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogHandler() *CatalogHandler {
	store := memory.NewStore()
	return NewCatalogHandler(
		catalog.NewCategoryService(store.Categories, zap.NewNop()),
		catalog.NewProductService(store.Products, zap.NewNop()),
		zap.NewNop(),
	)
}

func TestCatalogHandler_Categories(t *testing.T) {
	h := newCatalogHandler()

	w := httptest.NewRecorder()
	h.HandleCreateCategory(w, newRequest(t, http.MethodPost, "/categories", map[string]string{
		"name":  "Tablet",
		"image": "https://img/tablet.png",
	}, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Category
	decodeData(t, w, &created)
	require.NotEmpty(t, created.ID)

	w = httptest.NewRecorder()
	h.HandleUpdateCategory(w, newRequest(t, http.MethodPut, "/categories/"+created.ID,
		map[string]string{"name": "Tablets"}, map[string]string{"id": created.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.HandleGetCategory(w, newRequest(t, http.MethodGet, "/categories/"+created.ID, nil, map[string]string{"id": created.ID}))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Category
	decodeData(t, w, &got)
	assert.Equal(t, "Tablets", got.Name)

	w = httptest.NewRecorder()
	h.HandleListCategories(w, newRequest(t, http.MethodGet, "/categories", nil, nil))
	var list []models.Category
	decodeData(t, w, &list)
	assert.Len(t, list, 1)

	w = httptest.NewRecorder()
	h.HandleDeleteCategory(w, newRequest(t, http.MethodDelete, "/categories/"+created.ID, nil, map[string]string{"id": created.ID}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.HandleDeleteCategory(w, newRequest(t, http.MethodDelete, "/categories/"+created.ID, nil, map[string]string{"id": created.ID}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("name is required", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleCreateCategory(w, newRequest(t, http.MethodPost, "/categories", map[string]string{"image": "x"}, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_Products(t *testing.T) {
	h := newCatalogHandler()

	for _, p := range []map[string]interface{}{
		{"name": "Napa", "category": "tablet", "price": 10, "seller_email": "s1@test.com"},
		{"name": "Sergel", "category": "capsule", "price": 7.5, "seller_email": "s2@test.com"},
		{"name": "Ace", "category": "tablet", "price": 3, "seller_email": "s2@test.com"},
	} {
		w := httptest.NewRecorder()
		h.HandleCreateProduct(w, newRequest(t, http.MethodPost, "/products", p, nil))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/products", 3},
		{"by category", "/products?category=tablet", 2},
		{"by seller", "/products?seller=s2@test.com", 2},
		{"by both", "/products?category=tablet&seller=s2@test.com", 1},
		{"no match", "/products?category=syrup", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.HandleListProducts(w, newRequest(t, http.MethodGet, tt.target, nil, nil))
			require.Equal(t, http.StatusOK, w.Code)
			var list []models.Product
			decodeData(t, w, &list)
			assert.Len(t, list, tt.want)
		})
	}

	t.Run("discount out of range", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleCreateProduct(w, newRequest(t, http.MethodPost, "/products", map[string]interface{}{
			"name": "Bad", "category": "tablet", "price": 1, "discount": 120,
		}, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w)["details"], "discount")
	})

	t.Run("unknown product", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleGetProduct(w, newRequest(t, http.MethodGet, "/products/nope", nil, map[string]string{"id": "nope"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
