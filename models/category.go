package models

import "time"

// Category groups products in the catalog
type Category struct {
	ID          string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CollectionName returns the collection name for the Category model
func (Category) CollectionName() string {
	return "categories"
}

// GetID returns the document id
func (c *Category) GetID() string { return c.ID }

// SetID assigns the document id
func (c *Category) SetID(id string) { c.ID = id }
