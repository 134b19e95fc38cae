// Package memory implements storage.KVStore in process memory. Nothing
// survives a restart; it backs tests and ephemeral CLI runs.
package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/scrypster/cos/internal/storage"
)

// KVStore keeps values in a go-cache instance with no expiry.
type KVStore struct {
	cache *cache.Cache
}

var _ storage.KVStore = (*KVStore)(nil)

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Get returns a copy of the value for key or storage.ErrNotFound.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	x, found := s.cache.Get(key)
	if !found {
		return nil, storage.ErrNotFound
	}
	return clone(x.([]byte)), nil
}

// Put stores a copy of value.
func (s *KVStore) Put(_ context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	s.cache.Set(key, clone(value), cache.NoExpiration)
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

// Close empties the store.
func (s *KVStore) Close() error {
	s.cache.Flush()
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
