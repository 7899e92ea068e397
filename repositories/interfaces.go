package repositories

import (
	"context"
	"errors"

	"github.com/medimart/medi-server/models"
)

var (
	// ErrNotFound is returned when no document matches an id or filter
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when an insert violates a unique index
	ErrDuplicateKey = errors.New("duplicate key")
)

// Document is implemented by pointers to every stored model
type Document interface {
	GetID() string
	SetID(id string)
}

// Filter selects documents whose fields equal the given values.
// Keys are document field names (the json/bson tag names of the model).
type Filter map[string]interface{}

// Update is a set of field assignments applied to a single document
type Update map[string]interface{}

// Collection is a named set of documents of one model type
type Collection[T any] interface {
	// Find returns every document matching the filter; an empty filter matches all
	Find(ctx context.Context, filter Filter) ([]*T, error)

	// FindOne returns the first document matching the filter or ErrNotFound
	FindOne(ctx context.Context, filter Filter) (*T, error)

	// FindByID returns the document with the given id or ErrNotFound
	FindByID(ctx context.Context, id string) (*T, error)

	// Insert stores doc, assigns its id and returns it
	Insert(ctx context.Context, doc *T) (string, error)

	// UpdateByID sets the given fields on one document.
	// Setting fields to the values they already hold is not an error.
	UpdateByID(ctx context.Context, id string, update Update) error

	// IncrementByID atomically adds delta to a numeric field of one document.
	// A missing field counts as zero; ErrNotFound when no document has the id.
	IncrementByID(ctx context.Context, id string, field string, delta int64) error

	// DeleteByID removes one document or returns ErrNotFound
	DeleteByID(ctx context.Context, id string) error

	// DeleteMany removes every document matching the filter and returns the count
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}

// Backend is the connection lifecycle shared by every collection of a store
type Backend interface {
	// Name identifies the backend in logs and readiness output
	Name() string

	// Ping checks connectivity
	Ping(ctx context.Context) error

	// Close releases the underlying client
	Close(ctx context.Context) error
}

// TransactionManager runs a unit of work atomically where the backend supports it.
// Collections called with the context passed to fn take part in the transaction.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store aggregates all collections of the marketplace
type Store struct {
	Backend        Backend
	Tx             TransactionManager
	Users          Collection[models.User]
	Categories     Collection[models.Category]
	Products       Collection[models.Product]
	Carts          Collection[models.CartItem]
	Payments       Collection[models.Payment]
	Advertisements Collection[models.Advertisement]
}

// Ping checks the backend connection
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.Backend == nil {
		return errors.New("store not initialized")
	}
	return s.Backend.Ping(ctx)
}

// InTransaction runs fn inside a backend transaction, or directly when the backend has none
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.Tx == nil {
		return fn(ctx)
	}
	return s.Tx.InTransaction(ctx, fn)
}

// Close closes the backend connection
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Backend == nil {
		return nil
	}
	return s.Backend.Close(ctx)
}
