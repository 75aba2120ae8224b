package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/adapters/memory"
	"github.com/aretw0/notekeep/pkg/core"
)

func TestAutoSave_RepersistsUnconditionally(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, kv := newService(t, core.WithSyncWrites(true))
	id := svc.CreateNote()

	// Lose the stored blob behind the service's back.
	require.NoError(t, kv.Remove(ctx, core.NotesKey))

	svc.StartAutoSave(ctx, 20*time.Millisecond)
	assert.Eventually(t, func() bool {
		notes, ok := readBlob[[]core.Note](t, kv, core.NotesKey)
		return ok && len(notes) == 1 && notes[0].ID == id
	}, 2*time.Second, 10*time.Millisecond)

	st := svc.State().(core.ServiceState)
	assert.True(t, st.AutoSave)
	assert.Equal(t, "20ms", st.AutoSaveInterval)
}

func TestAutoSave_StopsOnClose(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t, core.WithSyncWrites(true))
	svc.CreateNote()

	svc.StartAutoSave(ctx, 10*time.Millisecond)
	require.NoError(t, svc.Close(ctx))
	require.NoError(t, kv.Remove(ctx, core.NotesKey))

	time.Sleep(50 * time.Millisecond)
	_, ok := readBlob[[]core.Note](t, kv, core.NotesKey)
	assert.False(t, ok, "no writes after close")
}

func TestWatch_ReloadsExternalChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := fs.NewStore(fs.Config{Path: t.TempDir(), Debounce: 10 * time.Millisecond})
	require.NoError(t, store.Initialize(ctx))

	svc := core.NewService(store, core.WithSyncWrites(true))
	require.NoError(t, svc.Load(ctx))
	svc.CreateNote()

	events, err := svc.Watch(ctx)
	require.NoError(t, err)

	// Another process rewrites the notes blob.
	other := core.NewService(store, core.WithSyncWrites(true))
	require.NoError(t, other.Load(ctx))
	id := other.CreateNote()
	other.UpdateNote(id, core.NotePatch{Title: core.Ptr("from elsewhere")})

	assert.Eventually(t, func() bool {
		note, ok := svc.GetNote(id)
		return ok && note.Title == "from elsewhere"
	}, 3*time.Second, 10*time.Millisecond)

	select {
	case e := <-events:
		assert.Equal(t, core.NotesKey, e.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a forwarded event")
	}
}

func TestWatch_Unsupported(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Watch(context.Background())
	assert.ErrorIs(t, err, core.ErrNotWatchable)
}

func TestReload_IgnoresOwnWrites(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t, core.WithSyncWrites(true))
	id := svc.CreateNote()

	require.NoError(t, svc.Reload(ctx, core.NotesKey))
	_, ok := svc.GetNote(id)
	assert.True(t, ok)

	// A foreign blob replaces the collection.
	require.NoError(t, kv.Write(ctx, core.NotesKey, []byte(`[]`)))
	require.NoError(t, svc.Reload(ctx, core.NotesKey))
	_, ok = svc.GetNote(id)
	assert.False(t, ok)
	assert.Empty(t, svc.CurrentNote())
}

// gatedStore holds its first Read open after taking the snapshot until
// release is closed.
type gatedStore struct {
	*memory.Store
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedStore) Read(ctx context.Context, key string) ([]byte, error) {
	raw, err := g.Store.Read(ctx, key)
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return raw, err
}

func TestReload_KeepsUpdateMadeDuringRead(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	kv := &gatedStore{Store: inner, started: make(chan struct{}), release: make(chan struct{})}
	svc := core.NewService(kv, core.WithSyncWrites(true))
	id := svc.CreateNote()

	done := make(chan error, 1)
	go func() { done <- svc.Reload(ctx, core.NotesKey) }()

	<-kv.started
	require.True(t, svc.UpdateNote(id, core.NotePatch{Title: core.Ptr("important")}))
	close(kv.release)
	require.NoError(t, <-done)

	n, ok := svc.GetNote(id)
	require.True(t, ok)
	assert.Equal(t, "important", n.Title)

	stored, ok := readBlob[[]core.Note](t, inner, core.NotesKey)
	require.True(t, ok)
	require.Len(t, stored, 1)
	assert.Equal(t, "important", stored[0].Title)

	// Once the local change settled, foreign blobs apply again.
	require.NoError(t, inner.Write(ctx, core.NotesKey, []byte(`[]`)))
	require.NoError(t, svc.Reload(ctx, core.NotesKey))
	assert.Empty(t, svc.Notes())
}

func TestReload_AppliesAfterFailedWrite(t *testing.T) {
	ctx := context.Background()
	svc, kv := newService(t, core.WithSyncWrites(true))

	kv.FailWrites = errors.New("disk full")
	id := svc.CreateNote()
	kv.FailWrites = nil

	require.NoError(t, kv.Write(ctx, core.NotesKey, []byte(`[]`)))
	require.NoError(t, svc.Reload(ctx, core.NotesKey))
	_, ok := svc.GetNote(id)
	assert.False(t, ok)
}
