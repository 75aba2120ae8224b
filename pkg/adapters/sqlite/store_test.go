package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	// Read non-existent key
	val, err := store.Read(ctx, "notes")
	require.NoError(t, err)
	require.Nil(t, val)

	// Write key
	require.NoError(t, store.Write(ctx, "notes", []byte(`[{"id":"a"}]`)))

	val, err = store.Read(ctx, "notes")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"a"}]`, string(val))

	// Update key
	require.NoError(t, store.Write(ctx, "notes", []byte(`[]`)))
	val, err = store.Read(ctx, "notes")
	require.NoError(t, err)
	require.Equal(t, "[]", string(val))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes"}, keys)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(ctx, "highlights", []byte("[]")))
	require.NoError(t, store.Remove(ctx, "highlights"))
	require.NoError(t, store.Remove(ctx, "highlights"), "removing a missing key is not an error")

	val, err := store.Read(ctx, "highlights")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, "notes", []byte("[1]")))
	require.NoError(t, store.Close())

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	val, err := store.Read(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(val))

	st := store.State().(StoreState)
	assert.Equal(t, filepath.Join(dir, FileName), st.Path)
	assert.Equal(t, "sqlite", store.ComponentType())
}
