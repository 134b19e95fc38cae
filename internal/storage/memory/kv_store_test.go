package memory

import (
	"testing"

	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/internal/storage/storagetest"
)

func TestKVStore(t *testing.T) {
	storagetest.RunKVStoreTests(t, func(t *testing.T) storage.KVStore {
		s := NewKVStore()
		t.Cleanup(func() { s.Close() })
		return s
	})
}
