package memory

import (
	"context"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
)

type backend struct{}

func (backend) Name() string { return config.DriverMemory }

func (backend) Ping(ctx context.Context) error { return nil }

func (backend) Close(ctx context.Context) error { return nil }

// NewStore returns an empty in-process store. Data is lost on restart.
func NewStore() *repositories.Store {
	return &repositories.Store{
		Backend:        backend{},
		Users:          NewCollection[models.User](models.User{}.CollectionName(), "email"),
		Categories:     NewCollection[models.Category](models.Category{}.CollectionName()),
		Products:       NewCollection[models.Product](models.Product{}.CollectionName()),
		Carts:          NewCollection[models.CartItem](models.CartItem{}.CollectionName()),
		Payments:       NewCollection[models.Payment](models.Payment{}.CollectionName()),
		Advertisements: NewCollection[models.Advertisement](models.Advertisement{}.CollectionName()),
	}
}
