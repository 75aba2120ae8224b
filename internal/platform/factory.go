package platform

import (
	"context"

	"github.com/aretw0/notekeep/pkg/core"
)

// New opens the configured store, builds the Service on top of it and loads
// the persisted notes.
//
//	svc, err := notekeep.New("./notes", notekeep.WithAdapter("sqlite"))
//
// Unreadable or corrupt blobs do not fail New: they are logged and the
// affected collection starts empty.
func New(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)

	store, err := openStore(ctx, path, o)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{core.WithSyncWrites(o.syncWrites)}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	service := core.NewService(store, svcOpts...)

	if err := service.Load(ctx); err != nil && o.logger != nil {
		o.logger.Warn("failed to load saved state", "error", err)
	}

	if o.autoSave > 0 {
		service.StartAutoSave(ctx, o.autoSave)
	}

	return service, nil
}
