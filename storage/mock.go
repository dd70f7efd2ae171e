package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecordStore mocks the interfaces.KeyedRecordStore interface.
type MockRecordStore struct {
	mock.Mock
}

// Exists mocks the Exists method.
func (m *MockRecordStore) Exists(ctx context.Context, key []byte) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Get mocks the Get method.
func (m *MockRecordStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Put mocks the Put method.
func (m *MockRecordStore) Put(ctx context.Context, key, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Length mocks the Length method.
func (m *MockRecordStore) Length(ctx context.Context, key []byte) (uint64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(uint64), args.Error(1)
}
