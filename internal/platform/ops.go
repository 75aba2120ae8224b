package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/adapters/memory"
	"github.com/aretw0/notekeep/pkg/adapters/sqlite"
	"github.com/aretw0/notekeep/pkg/core"
)

// OpenStore builds and initializes the storage adapter selected by the options.
// The path argument is the data directory for the fs and sqlite adapters and
// is ignored by the memory adapter.
func OpenStore(ctx context.Context, path string, opts ...Option) (core.KVStore, error) {
	return openStore(ctx, path, buildOptions(opts))
}

func openStore(ctx context.Context, path string, o *options) (core.KVStore, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterFS:
		return openFS(ctx, path, o)
	case AdapterSQLite:
		dir := resolvePath(path, o)
		if o.mustExist {
			if err := fs.NewStore(fs.Config{Path: dir, MustExist: true}).Initialize(ctx); err != nil {
				return nil, err
			}
		}
		return sqlite.NewStore(dir)
	case AdapterMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// openFS handles the initialization logic for the filesystem adapter.
func openFS(ctx context.Context, path string, o *options) (core.KVStore, error) {
	store := fs.NewStore(fs.Config{
		Path:         resolvePath(path, o),
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox to the user supplied path.
func resolvePath(path string, o *options) string {
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataDir(path, useTemp)

	if o.logger != nil && resolved != path && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}
