// Package storagetest holds the behaviour every storage.KVStore backend must
// share, so each backend's tests can run the same cases.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/cos/internal/storage"
)

// RunKVStoreTests exercises a backend. newStore must return an empty store.
func RunKVStoreTests(t *testing.T, newStore func(t *testing.T) storage.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "k", []byte(`{"a":1}`)))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), got)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "k", []byte("first")))
		require.NoError(t, s.Put(ctx, "k", []byte("second")))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.NoError(t, s.Delete(ctx, "never-set"))
	})

	t.Run("empty key", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.Put(ctx, "", []byte("v")), storage.ErrInvalidKey)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	t.Run("stored value is not aliased", func(t *testing.T) {
		s := newStore(t)
		value := []byte("abc")
		require.NoError(t, s.Put(ctx, "k", value))
		value[0] = 'x'
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})
}
