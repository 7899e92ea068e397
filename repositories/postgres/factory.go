package postgres

import (
	"context"
	"database/sql"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/repositories"
	"go.uber.org/zap"
)

// backend adapts DB to repositories.Backend
type backend struct {
	db *DB
}

func (b *backend) Name() string { return config.DriverPostgres }

func (b *backend) Ping(ctx context.Context) error { return b.db.HealthCheck(ctx) }

func (b *backend) Close(ctx context.Context) error { return b.db.Close() }

// NewStore connects to PostgreSQL, applies migrations and returns the collections
func NewStore(cfg config.DatabaseConfig, logger *zap.Logger) (*repositories.Store, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStoreFromDB(db, logger), nil
}

// NewStoreFromDB builds the collections on an existing connection pool
func NewStoreFromDB(db *DB, logger *zap.Logger) *repositories.Store {
	return &repositories.Store{
		Backend:        &backend{db: db},
		Tx:             NewTransactionManager(db, logger),
		Users:          NewCollection[models.User](db, models.User{}.CollectionName(), logger),
		Categories:     NewCollection[models.Category](db, models.Category{}.CollectionName(), logger),
		Products:       NewCollection[models.Product](db, models.Product{}.CollectionName(), logger),
		Carts:          NewCollection[models.CartItem](db, models.CartItem{}.CollectionName(), logger),
		Payments:       NewCollection[models.Payment](db, models.Payment{}.CollectionName(), logger),
		Advertisements: NewCollection[models.Advertisement](db, models.Advertisement{}.CollectionName(), logger),
	}
}

// WrapDB wraps an already opened *sql.DB
func WrapDB(sqlDB *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: sqlDB, logger: logger}
}
