package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medimart/medi-server/auth"
	"github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories/memory"
	"github.com/medimart/medi-server/services/advertisements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func asSeller(r *http.Request, email string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), models.NewUser(email, "", "", models.RoleSeller)))
}

func TestAdvertisementHandler(t *testing.T) {
	h := NewAdvertisementHandler(advertisements.NewService(memory.NewStore().Advertisements, zap.NewNop()), zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleCreate(w, asSeller(newRequest(t, http.MethodPost, "/seller/advertisements", map[string]string{
		"medicine_name": "Napa Extra",
		"seller_email":  "spoofed@test.com",
	}, nil), "s1@test.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ad models.Advertisement
	decodeData(t, w, &ad)
	assert.Equal(t, "s1@test.com", ad.SellerEmail)
	assert.False(t, ad.InSlide)

	t.Run("slides start empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleListSlides(w, newRequest(t, http.MethodGet, "/advertisements/slides", nil, nil))
		var slides []models.Advertisement
		decodeData(t, w, &slides)
		assert.Empty(t, slides)
	})

	t.Run("admin promotes to slider", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleSetSlide(w, newRequest(t, http.MethodPatch, "/admin/advertisements/"+ad.ID,
			map[string]bool{"in_slide": true}, map[string]string{"id": ad.ID}))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		h.HandleListSlides(w, newRequest(t, http.MethodGet, "/advertisements/slides", nil, nil))
		var slides []models.Advertisement
		decodeData(t, w, &slides)
		assert.Len(t, slides, 1)
	})

	t.Run("in_slide is required", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleSetSlide(w, newRequest(t, http.MethodPatch, "/admin/advertisements/"+ad.ID,
			map[string]string{}, map[string]string{"id": ad.ID}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("another seller cannot edit", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleUpdate(w, asSeller(newRequest(t, http.MethodPut, "/seller/advertisements/"+ad.ID,
			map[string]string{"medicine_name": "Hijack"}, map[string]string{"id": ad.ID}), "s2@test.com"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner edits via token claims", func(t *testing.T) {
		r := newRequest(t, http.MethodPut, "/seller/advertisements/"+ad.ID,
			map[string]string{"medicine_name": "Napa One"}, map[string]string{"id": ad.ID})
		r = r.WithContext(middleware.WithClaims(r.Context(), &auth.Claims{Email: "s1@test.com"}))
		w := httptest.NewRecorder()
		h.HandleUpdate(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		var updated models.Advertisement
		decodeData(t, w, &updated)
		assert.Equal(t, "Napa One", updated.MedicineName)
	})

	t.Run("listing by seller and all", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleListBySeller(w, newRequest(t, http.MethodGet, "/seller/advertisements/s2@test.com", nil, map[string]string{"email": "s2@test.com"}))
		var mine []models.Advertisement
		decodeData(t, w, &mine)
		assert.Empty(t, mine)

		w = httptest.NewRecorder()
		h.HandleListAll(w, newRequest(t, http.MethodGet, "/admin/advertisements", nil, nil))
		var all []models.Advertisement
		decodeData(t, w, &all)
		assert.Len(t, all, 1)
	})

	t.Run("no identity is 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandleCreate(w, newRequest(t, http.MethodPost, "/seller/advertisements", map[string]string{"medicine_name": "x"}, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
