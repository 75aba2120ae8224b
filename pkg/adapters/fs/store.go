// Package fs implements core.KVStore on a local directory.
//
// Every key is stored as its own file, <dir>/<key>.json, written atomically
// (temp file + rename) so readers never observe a torn blob.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/notekeep/pkg/core"
)

// Ext is the file extension of stored blobs.
const Ext = ".json"

// ErrReadOnly is returned by write operations on a read-only store.
var ErrReadOnly = errors.New("store is in read-only mode")

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	// ErrorHandler receives runtime watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
	// Debounce coalesces bursts of events for the same key. Zero means 50ms.
	Debounce time.Duration
}

// Store implements core.KVStore and core.Watchable on a directory.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

var (
	_ core.KVStore   = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)

// NewStore creates a new filesystem-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the data directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Read implements core.KVStore.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write implements core.KVStore.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	s.config.Logger.Debug("writing blob", "key", key, "path", path, "bytes", len(data))
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove implements core.KVStore.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	s.config.Logger.Debug("removing blob", "key", key, "path", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys currently stored in the directory.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := keyFor(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *Store) pathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Path, key+Ext), nil
}

// keyFor maps a file name back to its key, skipping temp files and foreign files.
func keyFor(name string) (string, bool) {
	name = filepath.Base(name)
	if strings.HasPrefix(name, TempFilePrefix) || filepath.Ext(name) != Ext {
		return "", false
	}
	key := strings.TrimSuffix(name, Ext)
	if key == "" {
		return "", false
	}
	return key, true
}
