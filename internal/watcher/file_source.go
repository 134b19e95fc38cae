package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/scrypster/cos/internal/logging"
)

// FileSource watches a JSON file holding a PageContext. The host rewrites
// the file whenever the page changes. The parent directory is watched so
// that atomic rename-into-place writes are seen.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{path: filepath.Clean(path), logger: logging.OrNop(logger).Named("watcher")}
}

// Subscribe implements Source. An existing file is read and emitted first.
func (s *FileSource) Subscribe(ctx context.Context, fn func(PageContext)) (func(), error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("watcher: mkdir %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watcher: watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := os.Stat(s.path); err == nil {
			s.emit(fn)
		}
		s.loop(ctx, w, fn)
	}()
	s.logger.Info("watching page context file", zap.String("path", s.path))

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = w.Close()
			<-done
		})
	}, nil
}

func (s *FileSource) loop(ctx context.Context, w *fsnotify.Watcher, fn func(PageContext)) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) == s.path && evt.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				s.emit(fn)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (s *FileSource) emit(fn func(PageContext)) {
	pc, err := ReadContextFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// Replaced between the event and the read; the next event carries it.
		return
	}
	if err != nil {
		s.logger.Debug("ignoring unreadable page context", zap.String("path", s.path), zap.Error(err))
		return
	}
	fn(pc)
}

// ReadContextFile decodes the page context stored at path.
func ReadContextFile(path string) (PageContext, error) {
	var pc PageContext
	data, err := os.ReadFile(path)
	if err != nil {
		return pc, err
	}
	if err := json.Unmarshal(data, &pc); err != nil {
		return pc, fmt.Errorf("watcher: decode %s: %w", path, err)
	}
	return pc, nil
}

// WriteContextFile atomically replaces path with pc, for hosts feeding a
// FileSource.
func WriteContextFile(path string, pc PageContext) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("watcher: encode context: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("watcher: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".context-*.tmp")
	if err != nil {
		return fmt.Errorf("watcher: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("watcher: write context: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("watcher: write context: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("watcher: replace %s: %w", path, err)
	}
	return nil
}
