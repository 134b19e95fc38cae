// Package storage provides the key-value persistence layer for COS.
//
// Every backend implements the small KVStore interface; the Repository on
// top of it knows the fixed keys and the JSON layout of the persisted blobs.
package storage

import "context"

// KVStore is a flat byte-value store addressed by string keys.
type KVStore interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Fixed storage keys.
const (
	KeyPreferences  = "cos-preferences"
	KeyContext      = "cos-context"
	KeyTrainingData = "cos-training-data"
)
