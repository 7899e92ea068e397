package mongodb

import (
	"context"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type backend struct {
	db *DB
}

func (b *backend) Name() string { return config.DriverMongo }

func (b *backend) Ping(ctx context.Context) error { return b.db.HealthCheck(ctx) }

func (b *backend) Close(ctx context.Context) error { return b.db.Close(ctx) }

// NewStore connects to MongoDB, ensures indexes and returns the collections
func NewStore(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*repositories.Store, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	store := NewStoreFromDatabase(db.database, logger)
	store.Backend = &backend{db: db}
	if cfg.Transactions {
		store.Tx = NewTransactionManager(db.client, logger)
	}
	return store, nil
}

// NewStoreFromDatabase builds the collections on database without a lifecycle backend
func NewStoreFromDatabase(database *mongo.Database, logger *zap.Logger) *repositories.Store {
	return &repositories.Store{
		Users:          NewCollection[models.User](database.Collection(models.User{}.CollectionName()), logger),
		Categories:     NewCollection[models.Category](database.Collection(models.Category{}.CollectionName()), logger),
		Products:       NewCollection[models.Product](database.Collection(models.Product{}.CollectionName()), logger),
		Carts:          NewCollection[models.CartItem](database.Collection(models.CartItem{}.CollectionName()), logger),
		Payments:       NewCollection[models.Payment](database.Collection(models.Payment{}.CollectionName()), logger),
		Advertisements: NewCollection[models.Advertisement](database.Collection(models.Advertisement{}.CollectionName()), logger),
	}
}
