package payments

import (
	"context"
	"errors"
	"time"

	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"github.com/medimart/medi-server/services"
	"github.com/medimart/medi-server/services/events"
	"go.uber.org/zap"
)

// ConfirmInput is the checkout recorded after the client confirmed the intent
type ConfirmInput struct {
	Email         string
	Price         float64
	TransactionID string
	CartIDs       []string
	ProductIDs    []string
	SellerEmails  []string
	Status        models.PaymentStatus
}

// Service handles payment intents and recorded payments
type Service struct {
	store    *repositories.Store
	gateway  Gateway
	currency string
	events   events.Emitter
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a payment service. A nil gateway disables intent creation.
func NewService(store *repositories.Store, gateway Gateway, currency string, emitter events.Emitter, logger *zap.Logger) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		store:    store,
		gateway:  gateway,
		currency: currency,
		events:   emitter,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateIntent asks the gateway for an intent covering price dollars
func (s *Service) CreateIntent(ctx context.Context, price float64) (*Intent, error) {
	if s.gateway == nil {
		return nil, services.ErrPaymentsDisabled
	}

	amount := ToCents(price)
	if amount <= 0 {
		return nil, services.ErrInvalidAmount
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return nil, services.WrapExternal(services.ErrPaymentGateway.Message, err)
	}
	return intent, nil
}

// Confirm stores the payment with a server timestamp and removes the paid cart items
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (*models.Payment, error) {
	status := in.Status
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !validStatus(status) {
		return nil, invalidStatus(status)
	}

	payment := &models.Payment{
		Email:         in.Email,
		Price:         in.Price,
		TransactionID: in.TransactionID,
		CartIDs:       in.CartIDs,
		ProductIDs:    in.ProductIDs,
		SellerEmails:  in.SellerEmails,
		Status:        status,
		Date:          s.now().UTC(),
	}

	err := s.store.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.collectCartDetails(ctx, payment); err != nil {
			return err
		}
		if _, err := s.store.Payments.Insert(ctx, payment); err != nil {
			return services.WrapInternal("failed to save payment", err)
		}
		for _, id := range payment.CartIDs {
			err := s.store.Carts.DeleteByID(ctx, id)
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return services.WrapInternal("failed to clear cart", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.String("payment_id", payment.ID),
		zap.String("email", payment.Email),
		zap.Int("cart_items", len(payment.CartIDs)))
	s.events.Emit(events.PaymentConfirmed, paymentEvent(payment))

	return payment, nil
}

// collectCartDetails fills product ids and seller emails from the cart items when the client omitted them
func (s *Service) collectCartDetails(ctx context.Context, payment *models.Payment) error {
	if len(payment.CartIDs) == 0 || (len(payment.ProductIDs) > 0 && len(payment.SellerEmails) > 0) {
		return nil
	}

	var productIDs, sellers []string
	seen := map[string]bool{}
	for _, id := range payment.CartIDs {
		item, err := s.store.Carts.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return services.WrapInternal("failed to load cart item", err)
		}
		productIDs = append(productIDs, item.ProductID)
		if item.SellerEmail != "" && !seen[item.SellerEmail] {
			seen[item.SellerEmail] = true
			sellers = append(sellers, item.SellerEmail)
		}
	}

	if len(payment.ProductIDs) == 0 {
		payment.ProductIDs = productIDs
	}
	if len(payment.SellerEmails) == 0 {
		payment.SellerEmails = sellers
	}
	return nil
}

// ListByEmail returns the payments of one buyer
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*models.Payment, error) {
	payments, err := s.store.Payments.Find(ctx, repositories.Filter{"email": email})
	if err != nil {
		return nil, services.WrapInternal("failed to list payments", err)
	}
	return payments, nil
}

// List returns every payment
func (s *Service) List(ctx context.Context) ([]*models.Payment, error) {
	payments, err := s.store.Payments.Find(ctx, nil)
	if err != nil {
		return nil, services.WrapInternal("failed to list payments", err)
	}
	return payments, nil
}

// UpdateStatus sets the status of a payment and returns the updated record
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	if !validStatus(status) {
		return nil, invalidStatus(status)
	}

	if err := s.store.Payments.UpdateByID(ctx, id, repositories.Update{"status": status}); err != nil {
		return nil, services.WrapStoreError(err, services.ErrPaymentNotFound, nil, "update payment")
	}

	payment, err := s.store.Payments.FindByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load payment", err)
	}

	s.logger.Info("payment status updated", zap.String("payment_id", id), zap.String("status", string(status)))
	s.events.Emit(events.PaymentStatusChanged, paymentEvent(payment))

	return payment, nil
}

func validStatus(status models.PaymentStatus) bool {
	return status == models.PaymentStatusPending || status == models.PaymentStatusPaid
}

func invalidStatus(status models.PaymentStatus) error {
	return services.NewDomainError(services.ErrorTypeValidation, services.ErrInvalidStatus.Message, nil).
		WithDetail("status", string(status))
}

func paymentEvent(p *models.Payment) events.PaymentEvent {
	return events.PaymentEvent{
		PaymentID:     p.ID,
		Email:         p.Email,
		Price:         p.Price,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		SellerEmails:  p.SellerEmails,
	}
}
