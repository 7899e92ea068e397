package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/medimart/medi-server/config"
	"github.com/medimart/medi-server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DB wraps a connected client and the marketplace database
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(cfg config.MongoConfig, logger *zap.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("mongo connection established", zap.String("connection", cfg.LogString()))

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("closing mongo connection")
	return db.client.Disconnect(ctx)
}

// HealthCheck pings the primary
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique and lookup indexes used by the services
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		models.User{}.CollectionName(): {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		models.CartItem{}.CollectionName(): {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		models.Payment{}.CollectionName(): {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		models.Product{}.CollectionName(): {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "seller_email", Value: 1}}},
		},
		models.Advertisement{}.CollectionName(): {
			{Keys: bson.D{{Key: "seller_email", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := db.database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	db.logger.Info("mongo indexes ensured")
	return nil
}
