// Package connections opens the configured storage backend.
package connections

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/config"
	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/internal/storage/memory"
	"github.com/scrypster/cos/internal/storage/redis"
	"github.com/scrypster/cos/internal/storage/sqlite"
)

// sanitizeURL replaces the password in a connection URL with [REDACTED]
// for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "[REDACTED]")
	}
	return u.String()
}

// Open creates the KVStore selected by cfg.Engine. The caller owns the
// returned store and must Close it.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.KVStore, error) {
	logger = logging.OrNop(logger)

	switch cfg.Engine {
	case "sqlite", "":
		path := filepath.Join(cfg.DataPath, "cos.db")
		store, err := sqlite.NewKVStore(path, logger)
		if err != nil {
			return nil, fmt.Errorf("connections: failed to open SQLite store at %s: %w", path, err)
		}
		logger.Debug("opened storage", zap.String("engine", "sqlite"), zap.String("path", path))
		return store, nil

	case "memory":
		logger.Debug("opened storage", zap.String("engine", "memory"))
		return memory.NewKVStore(), nil

	case "redis":
		store, err := redis.NewKVStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("connections: failed to open Redis store (%s): %w", sanitizeURL(cfg.RedisURL), err)
		}
		logger.Debug("opened storage", zap.String("engine", "redis"), zap.String("url", sanitizeURL(cfg.RedisURL)))
		return store, nil

	default:
		return nil, fmt.Errorf("connections: unsupported storage engine %q", cfg.Engine)
	}
}
