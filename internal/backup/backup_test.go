package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/cos/internal/storage"
	"github.com/scrypster/cos/internal/storage/sqlite"
)

var base = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func seedStore(t *testing.T, path string, value string) {
	t.Helper()
	s, err := sqlite.NewKVStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), storage.KeyPreferences, []byte(value)))
	require.NoError(t, s.Close())
}

func readPreferences(t *testing.T, path string) string {
	t.Helper()
	s, err := sqlite.NewKVStore(path, nil)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(context.Background(), storage.KeyPreferences)
	require.NoError(t, err)
	return string(v)
}

func TestSnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "cos.db")
	backupDir := filepath.Join(dir, "backups")

	seedStore(t, dbPath, `{"v":1}`)

	info, err := Snapshot(ctx, dbPath, backupDir, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupDir, "cos-20240115-090000.db"), info.Path)
	assert.Equal(t, base, info.Timestamp)
	assert.Positive(t, info.Size)
	require.NoError(t, Verify(ctx, info.Path))

	seedStore(t, dbPath, `{"v":2}`)
	assert.Equal(t, `{"v":2}`, readPreferences(t, dbPath))

	require.NoError(t, Restore(ctx, info.Path, dbPath))
	assert.Equal(t, `{"v":1}`, readPreferences(t, dbPath))
}

func TestSnapshot_MissingSource(t *testing.T) {
	_, err := Snapshot(context.Background(), filepath.Join(t.TempDir(), "nope.db"), t.TempDir(), base)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnapshot_RefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cos.db")
	seedStore(t, dbPath, `{}`)

	_, err := Snapshot(ctx, dbPath, dir, base)
	require.NoError(t, err)
	_, err = Snapshot(ctx, dbPath, dir, base)
	assert.ErrorContains(t, err, "already exists")
}

func TestVerify_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cos-20240101-000000.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))
	assert.Error(t, Verify(context.Background(), path))
}

func TestListPruneLatest(t *testing.T) {
	dir := t.TempDir()

	_, err := Latest(dir)
	assert.ErrorIs(t, err, ErrNoSnapshots)

	for i := 0; i < 4; i++ {
		name := "cos-" + base.Add(time.Duration(i)*time.Hour).Format(stampFmt) + ".db"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cos-garbage.db"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cos-20240101-000000.db"), 0o755))

	list, err := List(dir)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, base.Add(3*time.Hour), list[0].Timestamp)
	assert.Equal(t, base, list[3].Timestamp)

	latest, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, list[0], latest)

	removed, err := Prune(dir, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{list[2].Path, list[3].Path}, removed)

	list, err = List(dir)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	removed, err = Prune(dir, 5)
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, err = Prune(dir, 0)
	assert.Error(t, err)
}

func TestList_MissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
