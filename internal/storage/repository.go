package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
	"github.com/scrypster/cos/pkg/types"
)

// Repository reads and writes the persisted COS blobs under their fixed keys.
//
// Loads never fail on bad data: a missing key yields defaults, and a blob
// that does not decode is logged and replaced by defaults. Only backend
// errors are returned, always alongside usable defaults.
//
// Writes are whole-blob replacements with no versioning, so concurrent
// writers sharing one store overwrite each other (last writer wins).
type Repository struct {
	store  KVStore
	logger *zap.Logger
}

// NewRepository wraps a store.
func NewRepository(store KVStore, logger *zap.Logger) *Repository {
	return &Repository{store: store, logger: logging.OrNop(logger).Named("storage")}
}

// Store returns the underlying KVStore.
func (r *Repository) Store() KVStore {
	return r.store
}

// LoadPreferences returns the saved preferences or empty defaults.
func (r *Repository) LoadPreferences(ctx context.Context) (*types.UserPreferences, error) {
	prefs := types.NewUserPreferences()
	ok, err := r.load(ctx, KeyPreferences, prefs)
	if err != nil {
		return types.NewUserPreferences(), err
	}
	if !ok {
		return types.NewUserPreferences(), nil
	}
	prefs.Normalize()
	return prefs, nil
}

// SavePreferences replaces the stored preferences.
func (r *Repository) SavePreferences(ctx context.Context, prefs *types.UserPreferences) error {
	return r.save(ctx, KeyPreferences, prefs)
}

// LoadContext returns the saved context or a fresh one started at now.
func (r *Repository) LoadContext(ctx context.Context, now time.Time) (types.ContextData, error) {
	var data types.ContextData
	ok, err := r.load(ctx, KeyContext, &data)
	if err != nil {
		return types.NewContextData(now), err
	}
	if !ok {
		return types.NewContextData(now), nil
	}
	data.Normalize()
	return data, nil
}

// SaveContext replaces the stored context.
func (r *Repository) SaveContext(ctx context.Context, data types.ContextData) error {
	return r.save(ctx, KeyContext, data)
}

// ClearContext removes the stored context.
func (r *Repository) ClearContext(ctx context.Context) error {
	return r.Delete(ctx, KeyContext)
}

// LoadJSON decodes the blob stored under key into v. It reports false when
// the key is missing or the blob is corrupt.
func (r *Repository) LoadJSON(ctx context.Context, key string, v any) (bool, error) {
	return r.load(ctx, key, v)
}

// SaveJSON replaces the blob stored under key.
func (r *Repository) SaveJSON(ctx context.Context, key string, v any) error {
	return r.save(ctx, key, v)
}

// Delete removes the blob stored under key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// load decodes key into v. It reports false when the key is missing or the
// blob is corrupt.
func (r *Repository) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		r.logger.Warn("failed to read persisted state, using defaults", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		r.logger.Warn("corrupt persisted state, resetting to defaults", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}
