package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/pkg/cache"
	"github.com/noah-isme/employee-admin-client/pkg/config"
)

// Durable storage keys.
const (
	KeyToken     = "token"
	KeyThemeMode = "themeMode"
)

// KeyValueStore is durable client storage. Get returns errors.ErrKeyNotFound
// when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// OpenStore builds the backend selected by cfg.Storage.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (KeyValueStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Storage.Driver {
	case "", config.StorageFile:
		logger.Debug("using file storage", zap.String("path", cfg.Storage.Path))
		return NewFileStore(cfg.Storage.Path), nil
	case config.StorageSQLite:
		logger.Debug("using sqlite storage", zap.String("path", cfg.Storage.SQLitePath))
		return OpenSQLiteStore(ctx, cfg.Storage.SQLitePath)
	case config.StorageRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Debug("using redis storage", zap.String("prefix", cfg.Redis.KeyPrefix))
		return NewRedisStore(client, cfg.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
