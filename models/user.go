package models

import (
	"time"
)

// UserRole represents the marketplace role of a user
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered marketplace account. Email is unique across all users.
type User struct {
	ID           string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty"`
	Photo        string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Role         UserRole  `json:"role" bson:"role"`
	PasswordHash string    `json:"password_hash,omitempty" bson:"password_hash,omitempty"` // Stored, never returned by handlers
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CollectionName returns the collection name for the User model
func (User) CollectionName() string {
	return "users"
}

// NewUser creates a new User instance; an empty role defaults to RoleUser
func NewUser(email, name, photo string, role UserRole) *User {
	if role == "" {
		role = RoleUser
	}
	return &User{
		Email:     email,
		Name:      name,
		Photo:     photo,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSeller returns true if the user has seller role
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// HasRole reports whether the stored role equals role exactly
func (u *User) HasRole(role UserRole) bool {
	return u.Role == role
}

// GetID returns the document id
func (u *User) GetID() string { return u.ID }

// SetID assigns the document id
func (u *User) SetID(id string) { u.ID = id }
