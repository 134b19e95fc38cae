// Package redis implements storage.KVStore on a Redis server, letting
// several COS hosts share one profile.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/scrypster/cos/internal/storage"
)

// KVStore stores each key as a plain Redis string under an optional prefix.
type KVStore struct {
	client *goredis.Client
	prefix string
}

var _ storage.KVStore = (*KVStore)(nil)

// NewKVStore parses a redis:// URL, connects and pings the server.
func NewKVStore(ctx context.Context, redisURL, prefix string) (*KVStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: failed to parse url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}
	return NewKVStoreFromClient(client, prefix), nil
}

// NewKVStoreFromClient wraps an existing client. Close closes the client.
func NewKVStoreFromClient(client *goredis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

// Get returns the value for key or storage.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return value, nil
}

// Put sets the value for key with no expiry.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *KVStore) Close() error {
	return s.client.Close()
}
