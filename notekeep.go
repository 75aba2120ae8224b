package notekeep

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/notekeep/internal/platform"
	"github.com/aretw0/notekeep/pkg/core"
)

// --- Types ---

// Service is the note store.
type Service = core.Service

// Note is a user-authored text document with an optional drawing.
type Note = core.Note

// Highlight is a colored text excerpt attached to a note.
type Highlight = core.Highlight

// NoteHighlight groups the highlights of one note.
type NoteHighlight = core.NoteHighlight

// Config is the TOML configuration file read by the CLI.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring notekeep.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.KVStore) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the store in read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSyncWrites makes every mutation persist before returning.
func WithSyncWrites(enabled bool) Option {
	return platform.WithSyncWrites(enabled)
}

// WithAutoSave enables the periodic full save.
func WithAutoSave(interval time.Duration) Option {
	return platform.WithAutoSave(interval)
}

// WithWatcherErrorHandler registers a callback for watch loop failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the data directory at path and loads the saved notes.
func New(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, path, opts...)
}

// OpenStore builds the storage adapter without a Service on top.
func OpenStore(ctx context.Context, path string, opts ...Option) (core.KVStore, error) {
	return platform.OpenStore(ctx, path, opts...)
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string, optional bool) (Config, error) {
	return platform.LoadConfig(path, optional)
}

// --- Safety & Utils ---

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindDataDir looks upwards for a .notekeep directory.
func FindDataDir(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DefaultConfigPath returns the default location of the TOML configuration.
func DefaultConfigPath() (string, error) {
	return platform.DefaultConfigPath()
}
