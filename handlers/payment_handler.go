package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/services/payments"
	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// CreateIntentRequest carries the checkout total in dollars
type CreateIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

// CreateIntentResponse carries the secret the browser confirms the card payment with
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// ConfirmPaymentRequest represents a checkout the client completed
type ConfirmPaymentRequest struct {
	Email         string               `json:"email" validate:"required,email"`
	Price         float64              `json:"price" validate:"gt=0"`
	TransactionID string               `json:"transaction_id" validate:"required"`
	CartIDs       []string             `json:"cart_ids,omitempty"`
	ProductIDs    []string             `json:"product_ids,omitempty"`
	SellerEmails  []string             `json:"seller_emails,omitempty" validate:"omitempty,dive,email"`
	Status        models.PaymentStatus `json:"status,omitempty" validate:"omitempty,oneof=pending paid"`
}

// UpdatePaymentStatusRequest represents a status change
type UpdatePaymentStatusRequest struct {
	Status models.PaymentStatus `json:"status" validate:"required,oneof=pending paid"`
}

// PaymentService defines the payment operations the handler needs
type PaymentService interface {
	CreateIntent(ctx context.Context, price float64) (*payments.Intent, error)
	Confirm(ctx context.Context, in payments.ConfirmInput) (*models.Payment, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error)
}

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	payments PaymentService
	logger   *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// HandleCreateIntent handles POST /create-payment-intent
func (h *PaymentHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	intent, err := h.payments.CreateIntent(r.Context(), req.Price)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, CreateIntentResponse{ClientSecret: intent.ClientSecret}))
}

// HandleConfirmPayment handles POST /confirm-payment
func (h *PaymentHandler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	payment, err := h.payments.Confirm(r.Context(), payments.ConfirmInput(req))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("checkout recorded",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("payment_id", payment.ID))
	writeResponse(h.logger, utils.WriteCreated(w, payment))
}

// HandleListUserPayments handles GET /payments/{email}
func (h *PaymentHandler) HandleListUserPayments(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r, h.logger)
	if !ok {
		return
	}
	list, err := h.payments.ListByEmail(r.Context(), email)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, list))
}

// HandleListPayments handles GET /payments
func (h *PaymentHandler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	list, err := h.payments.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, list))
}

// HandleUpdateStatus handles PATCH /payments/{id}
func (h *PaymentHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentStatusRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	payment, err := h.payments.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(h.logger, utils.WriteOK(w, payment))
}
