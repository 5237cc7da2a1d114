package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"summercamp-backend-go/internal/config"
)

// Open connects the DocumentStore selected by appConfig.StoreDriver.
func Open(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (DocumentStore, error) {
	switch appConfig.StoreDriver {
	case config.StoreMongo:
		return NewMongoStore(ctx, appConfig.MongoURI, appConfig.MongoDatabase, logger)
	case config.StoreFirestore:
		return NewFirestoreStore(ctx, appConfig, logger)
	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", appConfig.StoreDriver)
}
