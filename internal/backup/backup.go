// Package backup snapshots the sqlite store holding COS preferences, context
// and training data, and prunes old snapshots.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	filePrefix = "cos-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

// ErrNoSnapshots is returned by Latest when the directory holds none.
var ErrNoSnapshots = errors.New("backup: no snapshots")

// Info describes one snapshot file.
type Info struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// Snapshot writes a consistent copy of the database at dbPath into dir as
// cos-<stamp>.db. VACUUM INTO handles WAL mode, so the store may stay open.
func Snapshot(ctx context.Context, dbPath, dir string, now time.Time) (Info, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return Info{}, fmt.Errorf("backup: source %s: %w", dbPath, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, fmt.Errorf("backup: create %s: %w", dir, err)
	}

	dest := filepath.Join(dir, filePrefix+now.UTC().Format(stampFmt)+fileSuffix)
	if _, err := os.Stat(dest); err == nil {
		return Info{}, fmt.Errorf("backup: %s already exists", dest)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return Info{}, fmt.Errorf("backup: vacuum into %s: %w", dest, err)
	}
	if err := Verify(ctx, dest); err != nil {
		_ = os.Remove(dest)
		return Info{}, err
	}

	st, err := os.Stat(dest)
	if err != nil {
		return Info{}, fmt.Errorf("backup: stat %s: %w", dest, err)
	}
	return Info{Path: dest, Timestamp: now.UTC().Truncate(time.Second), Size: st.Size()}, nil
}

// Verify runs sqlite's integrity check against path.
func Verify(ctx context.Context, path string) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("backup: integrity check %s: %w", path, err)
	}
	if result != "ok" {
		return fmt.Errorf("backup: integrity check %s failed: %s", path, result)
	}
	return nil
}

// Restore verifies the snapshot and copies it over target. The store at
// target must be closed.
func Restore(ctx context.Context, snapshot, target string) error {
	if err := Verify(ctx, snapshot); err != nil {
		return err
	}

	src, err := os.Open(snapshot)
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", snapshot, err)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("backup: create %s: %w", filepath.Dir(target), err)
	}
	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("backup: create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("backup: copy to %s: %w", target, err)
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		return fmt.Errorf("backup: sync %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("backup: close %s: %w", target, err)
	}

	// Stale WAL files from the replaced database would be replayed on open.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(target + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("backup: remove %s: %w", target+suffix, err)
		}
	}
	return Verify(ctx, target)
}

// List returns the snapshots in dir, newest first. Files that do not carry
// the snapshot name pattern are skipped.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("backup: read %s: %w", dir, err)
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(dir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Latest returns the newest snapshot in dir.
func Latest(dir string) (Info, error) {
	snapshots, err := List(dir)
	if err != nil {
		return Info{}, err
	}
	if len(snapshots) == 0 {
		return Info{}, ErrNoSnapshots
	}
	return snapshots[0], nil
}

// Prune keeps the newest keep snapshots in dir and deletes the rest. It
// returns the removed paths. Deletion continues past individual failures.
func Prune(dir string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("backup: keep must be at least 1, got %d", keep)
	}
	snapshots, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= keep {
		return nil, nil
	}

	var removed []string
	var errs []error
	for _, s := range snapshots[keep:] {
		if err := os.Remove(s.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, s.Path)
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("backup: prune: %w", errors.Join(errs...))
	}
	return removed, nil
}

func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	ts, err := time.Parse(stampFmt, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// openDB opens an existing database. A missing file is an error rather
// than a new empty database.
func openDB(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("backup: open %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("backup: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("backup: open %s: %w", path, err)
	}
	return db, nil
}
