package storage

import (
	"context"
	"sync"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// Transaction is the view a single invocation gets of the record store.
// Reads observe earlier writes of the same transaction; writes are buffered
// until the transaction commits.
type Transaction interface {
	Exists(ctx context.Context, key []byte) (bool, error)
	Get(ctx context.Context, key []byte) ([]byte, error)
	Put(ctx context.Context, key, value []byte) error
	Length(ctx context.Context, key []byte) (uint64, error)
}

// Transactor provides the per-invocation atomic transaction boundary the
// registry relies on. Execute runs fn against a buffered view of the
// underlying store; only if fn returns nil are the buffered writes applied.
// Transactions are serialized, so for any key at most one concurrent
// invocation can observe it as absent and proceed to write.
type Transactor struct {
	mu    sync.Mutex
	store interfaces.KeyedRecordStore
}

// NewTransactor wraps a record store with a transaction boundary.
func NewTransactor(store interfaces.KeyedRecordStore) *Transactor {
	return &Transactor{store: store}
}

// Execute runs fn inside a fresh transaction. If fn returns an error, the
// buffered writes are discarded and the store is left untouched; otherwise
// they are committed to the underlying store in write order.
func (t *Transactor) Execute(ctx context.Context, fn func(tx Transaction) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	txn := &bufferedTxn{
		store:  t.store,
		writes: make(map[string][]byte),
	}

	if err := fn(txn); err != nil {
		return err
	}

	return txn.commit(ctx)
}

// bufferedTxn collects writes in memory and reads through to the underlying
// store for keys it has not written.
type bufferedTxn struct {
	store  interfaces.KeyedRecordStore
	writes map[string][]byte
	order  [][]byte
}

func (t *bufferedTxn) Exists(ctx context.Context, key []byte) (bool, error) {
	if _, ok := t.writes[string(key)]; ok {
		return true, nil
	}
	return t.store.Exists(ctx, key)
}

func (t *bufferedTxn) Get(ctx context.Context, key []byte) ([]byte, error) {
	if value, ok := t.writes[string(key)]; ok {
		out := make([]byte, len(value))
		copy(out, value)
		return out, nil
	}
	return t.store.Get(ctx, key)
}

func (t *bufferedTxn) Put(ctx context.Context, key, value []byte) error {
	if _, ok := t.writes[string(key)]; !ok {
		keyCopy := make([]byte, len(key))
		copy(keyCopy, key)
		t.order = append(t.order, keyCopy)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	t.writes[string(key)] = stored
	return nil
}

func (t *bufferedTxn) Length(ctx context.Context, key []byte) (uint64, error) {
	if value, ok := t.writes[string(key)]; ok {
		return uint64(len(value)), nil
	}
	return t.store.Length(ctx, key)
}

func (t *bufferedTxn) commit(ctx context.Context) error {
	for _, key := range t.order {
		if err := t.store.Put(ctx, key, t.writes[string(key)]); err != nil {
			return err
		}
	}
	return nil
}
