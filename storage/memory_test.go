package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpvault/attestation-registry/interfaces"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := []byte("some-key")

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	length, err := store.Length(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, length)

	require.NoError(t, store.Put(ctx, key, []byte("value")))

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	length, err = store.Length(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), length)

	// Put overwrites
	require.NoError(t, store.Put(ctx, key, []byte("new")))
	value, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)

	// Returned slices must not alias stored bytes
	value[0] = 'X'
	again, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), again)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()
	key := []byte{0x01, 0x02}

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, interfaces.ErrRecordNotFound)

	require.NoError(t, store.Put(ctx, key, []byte("value")))

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	length, err := store.Length(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), length)
}
