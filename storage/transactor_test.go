package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	store := NewMemoryStore()
	transactor := NewTransactor(store)
	ctx := context.Background()

	err := transactor.Execute(ctx, func(tx Transaction) error {
		return tx.Put(ctx, []byte("k"), []byte("v"))
	})
	require.NoError(t, err)

	value, err := store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestTransactor_DiscardsOnError(t *testing.T) {
	store := NewMemoryStore()
	transactor := NewTransactor(store)
	ctx := context.Background()
	boom := errors.New("validation failed")

	err := transactor.Execute(ctx, func(tx Transaction) error {
		require.NoError(t, tx.Put(ctx, []byte("k1"), []byte("v1")))
		require.NoError(t, tx.Put(ctx, []byte("k2"), []byte("v2")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 0, store.Len(), "no write may leak out of a failed transaction")
}

func TestTransactor_ReadYourWrites(t *testing.T) {
	store := NewMemoryStore()
	transactor := NewTransactor(store)
	ctx := context.Background()

	err := transactor.Execute(ctx, func(tx Transaction) error {
		exists, err := tx.Exists(ctx, []byte("k"))
		require.NoError(t, err)
		require.False(t, exists)

		require.NoError(t, tx.Put(ctx, []byte("k"), []byte("v")))

		exists, err = tx.Exists(ctx, []byte("k"))
		require.NoError(t, err)
		require.True(t, exists)

		value, err := tx.Get(ctx, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), value)

		length, err := tx.Length(ctx, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, uint64(1), length)
		return nil
	})
	require.NoError(t, err)

	// Uncommitted state must not have been visible before commit; now it is
	value, err := store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestTransactor_ReadsThroughToStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, []byte("k"), []byte("stored")))

	transactor := NewTransactor(store)
	err := transactor.Execute(ctx, func(tx Transaction) error {
		value, err := tx.Get(ctx, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("stored"), value)
		return nil
	})
	require.NoError(t, err)
}

// Two racing check-then-write transactions: serialization guarantees that
// exactly one observes the key as absent and writes.
func TestTransactor_SerializesCheckThenWrite(t *testing.T) {
	store := NewMemoryStore()
	transactor := NewTransactor(store)
	ctx := context.Background()
	conflict := errors.New("already present")

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = transactor.Execute(ctx, func(tx Transaction) error {
				exists, err := tx.Exists(ctx, []byte("k"))
				if err != nil {
					return err
				}
				if exists {
					return conflict
				}
				return tx.Put(ctx, []byte("k"), []byte{byte(i)})
			})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, conflict)
		}
	}
	assert.Equal(t, 1, wins)
}
