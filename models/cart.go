package models

import "time"

// CartItem is one product line in a buyer's cart
type CartItem struct {
	ID          string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Email       string    `json:"email" bson:"email"`
	ProductID   string    `json:"product_id" bson:"product_id"`
	Name        string    `json:"name" bson:"name"`
	Company     string    `json:"company,omitempty" bson:"company,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	SellerEmail string    `json:"seller_email,omitempty" bson:"seller_email,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CollectionName returns the collection name for the CartItem model
func (CartItem) CollectionName() string {
	return "carts"
}

// Subtotal returns price times quantity
func (c *CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}

// GetID returns the document id
func (c *CartItem) GetID() string { return c.ID }

// SetID assigns the document id
func (c *CartItem) SetID(id string) { c.ID = id }
