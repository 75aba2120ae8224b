package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notekeep/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// Adapters lists the supported adapter names.
func Adapters() []string {
	return []string{AdapterFS, AdapterSQLite, AdapterMemory}
}

// options holds the internal configuration for the notekeep service.
type options struct {
	store        core.KVStore
	logger       *slog.Logger
	adapter      string
	mustExist    bool
	readOnly     bool
	forceTemp    bool
	devSafety    bool
	syncWrites   bool
	autoSave     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring notekeep.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage adapter (e.g. mock, remote).
// If provided, the adapter selected by WithAdapter is skipped.
func WithStore(store core.KVStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly opens the fs adapter in read-only mode.
// Writes fail with fs.ErrReadOnly and the dev sandbox is bypassed.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true) the data directory is re-rooted under the system temp dir
// so a dev build never touches real notes.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithSyncWrites makes every mutation persist before returning.
func WithSyncWrites(enabled bool) Option {
	return func(o *options) {
		o.syncWrites = enabled
	}
}

// WithAutoSave starts the periodic full save after loading.
// Zero disables it.
func WithAutoSave(interval time.Duration) Option {
	return func(o *options) {
		o.autoSave = interval
	}
}

// WithWatcherErrorHandler registers a callback for errors in the fs watch loop,
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
