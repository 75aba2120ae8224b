// Package notekeep is the Composition Root for the notekeep note store.
//
// It connects the core note and highlight logic (Domain Layer) with the
// storage adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// The store keeps every note and highlight group in memory and writes the
// full collections through to a key-value adapter on every change:
//
//   - fs: one JSON file per key, written atomically and watched with fsnotify.
//   - sqlite: a single database file (modernc.org/sqlite, no cgo).
//   - memory: nothing leaves the process.
//
// Usage:
//
//	svc, err := notekeep.New(ctx, "./notes",
//		notekeep.WithAdapter("sqlite"),
//		notekeep.WithLogger(logger),
//	)
//	defer svc.Close(ctx)
//
//	id := svc.CreateNote()
//	svc.UpdateNote(id, core.NotePatch{Title: core.Ptr("Groceries")})
package notekeep
