package models

import "time"

// Product is a medicine listed by a seller
type Product struct {
	ID          string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	GenericName string    `json:"generic_name,omitempty" bson:"generic_name,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category" bson:"category"`
	Company     string    `json:"company,omitempty" bson:"company,omitempty"`
	MassUnit    string    `json:"mass_unit,omitempty" bson:"mass_unit,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Discount    float64   `json:"discount" bson:"discount"` // Percentage, 0-100
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	SellerEmail string    `json:"seller_email,omitempty" bson:"seller_email,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CollectionName returns the collection name for the Product model
func (Product) CollectionName() string {
	return "products"
}

// DiscountedPrice returns the unit price after the percentage discount
func (p *Product) DiscountedPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (100 - p.Discount) / 100
}

// GetID returns the document id
func (p *Product) GetID() string { return p.ID }

// SetID assigns the document id
func (p *Product) SetID(id string) { p.ID = id }
