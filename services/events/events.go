// Package events publishes marketplace domain events to a message broker.
package events

import (
	"context"
	"time"
)

// Routing keys
const (
	UserRoleChanged      = "user.role_changed"
	PaymentConfirmed     = "payment.confirmed"
	PaymentStatusChanged = "payment.status_changed"
)

// Publisher delivers one event to the broker
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// Emitter accepts events without blocking the caller
type Emitter interface {
	Emit(routingKey string, payload interface{})
}

// Envelope wraps every published payload
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// RoleChange is the payload of UserRoleChanged
type RoleChange struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// PaymentEvent is the payload of PaymentConfirmed and PaymentStatusChanged
type PaymentEvent struct {
	PaymentID     string   `json:"payment_id"`
	Email         string   `json:"email"`
	Price         float64  `json:"price"`
	TransactionID string   `json:"transaction_id"`
	Status        string   `json:"status"`
	SellerEmails  []string `json:"seller_emails,omitempty"`
}
