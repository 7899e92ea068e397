package mongodb

import (
	"context"
	"fmt"

	"github.com/medimart/medi-server/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TransactionManager runs units of work inside a client session transaction
type TransactionManager struct {
	client *mongo.Client
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(client *mongo.Client, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{client: client, logger: logger}
}

// InTransaction executes fn with a session context; collection calls using it join the transaction
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := tm.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		tm.logger.Debug("transaction aborted", zap.Error(err))
	}
	return err
}
