package models

import "time"

// Advertisement is a seller's promotion request; admins decide whether it appears in the home slider
type Advertisement struct {
	ID           string    `json:"_id,omitempty" bson:"_id,omitempty"`
	MedicineName string    `json:"medicine_name" bson:"medicine_name"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	SellerEmail  string    `json:"seller_email" bson:"seller_email"`
	InSlide      bool      `json:"in_slide" bson:"in_slide"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CollectionName returns the collection name for the Advertisement model
func (Advertisement) CollectionName() string {
	return "advertisements"
}

// GetID returns the document id
func (a *Advertisement) GetID() string { return a.ID }

// SetID assigns the document id
func (a *Advertisement) SetID(id string) { a.ID = id }
