package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	val, err := s.Read(ctx, "notes")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Write(ctx, "notes", []byte("[]")))
	val, err = s.Read(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), val)

	require.NoError(t, s.Remove(ctx, "notes"))
	require.NoError(t, s.Remove(ctx, "notes"), "removing a missing key is not an error")

	val, err = s.Read(ctx, "notes")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	data := []byte("abc")
	require.NoError(t, s.Write(ctx, "k", data))
	data[0] = 'x'

	val, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(val))
}

func TestStore_Failures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := NewStore()
	s.FailWrites = boom
	s.FailReads = boom

	assert.ErrorIs(t, s.Write(ctx, "k", nil), boom)
	assert.ErrorIs(t, s.Remove(ctx, "k"), boom)
	_, err := s.Read(ctx, "k")
	assert.ErrorIs(t, err, boom)
}
