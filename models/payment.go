package models

import "time"

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is a confirmed checkout recorded after the gateway accepted the charge
type Payment struct {
	ID            string        `json:"_id,omitempty" bson:"_id,omitempty"`
	Email         string        `json:"email" bson:"email"`
	Price         float64       `json:"price" bson:"price"`
	TransactionID string        `json:"transaction_id" bson:"transaction_id"`
	CartIDs       []string      `json:"cart_ids,omitempty" bson:"cart_ids,omitempty"`
	ProductIDs    []string      `json:"product_ids,omitempty" bson:"product_ids,omitempty"`
	SellerEmails  []string      `json:"seller_emails,omitempty" bson:"seller_emails,omitempty"`
	Status        PaymentStatus `json:"status" bson:"status"`
	Date          time.Time     `json:"date" bson:"date"`
}

// CollectionName returns the collection name for the Payment model
func (Payment) CollectionName() string {
	return "payments"
}

// IsPaid returns true once the payment has been marked paid
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// SoldBy reports whether sellerEmail supplied any item of this payment
func (p *Payment) SoldBy(sellerEmail string) bool {
	for _, s := range p.SellerEmails {
		if s == sellerEmail {
			return true
		}
	}
	return false
}

// GetID returns the document id
func (p *Payment) GetID() string { return p.ID }

// SetID assigns the document id
func (p *Payment) SetID(id string) { p.ID = id }
