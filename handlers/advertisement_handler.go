package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/advertisements"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// AdvertisementRequest represents a seller's advertisement create or edit request
type AdvertisementRequest struct {
	MedicineName string `json:"medicine_name" validate:"required,max=200"`
	Description  string `json:"description,omitempty" validate:"max=1000"`
	Image        string `json:"image,omitempty"`
}

// SlideRequest sets whether an advertisement appears in the home slider
type SlideRequest struct {
	InSlide *bool `json:"in_slide" validate:"required"`
}

// AdvertisementService defines the advertisement operations the handler needs
type AdvertisementService interface {
	List(ctx context.Context) ([]*models.Advertisement, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]*models.Advertisement, error)
	Slides(ctx context.Context) ([]*models.Advertisement, error)
	Create(ctx context.Context, sellerEmail string, in advertisements.Input) (*models.Advertisement, error)
	Update(ctx context.Context, id, sellerEmail string, in advertisements.Input) (*models.Advertisement, error)
	SetSlide(ctx context.Context, id string, inSlide bool) (*models.Advertisement, error)
}

// AdvertisementHandler handles advertisement HTTP requests
type AdvertisementHandler struct {
	ads    AdvertisementService
	logger *zap.Logger
}

// NewAdvertisementHandler creates a new AdvertisementHandler
func NewAdvertisementHandler(ads AdvertisementService, logger *zap.Logger) *AdvertisementHandler {
	return &AdvertisementHandler{
		ads:    ads,
		logger: logger,
	}
}

// HandleListAll handles GET /admin/advertisements
func (h *AdvertisementHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.ads.List)
}

// HandleListSlides handles GET /advertisements/slides
func (h *AdvertisementHandler) HandleListSlides(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.ads.Slides)
}

// HandleListBySeller handles GET /seller/advertisements/{email}
func (h *AdvertisementHandler) HandleListBySeller(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r, h.logger)
	if !ok {
		return
	}
	h.writeList(w, r, func(ctx context.Context) ([]*models.Advertisement, error) {
		return h.ads.ListBySeller(ctx, email)
	})
}

func (h *AdvertisementHandler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.Advertisement, error)) {
	ads, err := list(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, ads))
}

// HandleCreate handles POST /seller/advertisements. The seller is the verified caller.
func (h *AdvertisementHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	seller, ok := h.seller(w, r)
	if !ok {
		return
	}

	var req AdvertisementRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	ad, err := h.ads.Create(r.Context(), seller, advertisements.Input(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteCreated(w, ad))
}

// HandleUpdate handles PUT /seller/advertisements/{id}
func (h *AdvertisementHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	seller, ok := h.seller(w, r)
	if !ok {
		return
	}

	var req AdvertisementRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	ad, err := h.ads.Update(r.Context(), chi.URLParam(r, "id"), seller, advertisements.Input(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, ad))
}

// HandleSetSlide handles PATCH /admin/advertisements/{id}
func (h *AdvertisementHandler) HandleSetSlide(w http.ResponseWriter, r *http.Request) {
	var req SlideRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	ad, err := h.ads.SetSlide(r.Context(), chi.URLParam(r, "id"), *req.InSlide)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, ad))
}

// seller returns the email of the verified caller
func (h *AdvertisementHandler) seller(w http.ResponseWriter, r *http.Request) (string, bool) {
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		return user.Email, true
	}
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil && claims.Email != "" {
		return claims.Email, true
	}
	h.logger.Error("seller route reached without verified identity")
	writeResponse(h.logger, utils.WriteUnauthorized(w, ""))
	return "", false
}
