package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// FileStore implements a record store using the local file system. Each
// record lives in one file named by the hex encoding of its key.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a new file-backed record store using the specified
// base directory, creating it if it doesn't exist.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Exists reports whether a record file exists for key.
func (s *FileStore) Exists(ctx context.Context, key []byte) (bool, error) {
	_, err := os.Stat(s.recordPath(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat record: %w", err)
	}
	return true, nil
}

// Get retrieves the value stored at key. Returns ErrRecordNotFound if the
// file doesn't exist.
func (s *FileStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	path := s.recordPath(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, interfaces.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	s.log.Debug("Fetched record from file",
		slog.String("path", path),
		slog.Int("size", len(data)))

	return data, nil
}

// Put stores value at key, creating or overwriting the record file.
func (s *FileStore) Put(ctx context.Context, key, value []byte) error {
	path := s.recordPath(key)

	if err := os.WriteFile(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	s.log.Debug("Stored record in file",
		slog.String("path", path),
		slog.Int("size", len(value)))

	return nil
}

// Length returns the record file's size in bytes, or 0 if absent.
func (s *FileStore) Length(ctx context.Context, key []byte) (uint64, error) {
	info, err := os.Stat(s.recordPath(key))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat record: %w", err)
	}
	return uint64(info.Size()), nil
}

// LocationURI returns the URI that identifies this record store.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

func (s *FileStore) recordPath(key []byte) string {
	return filepath.Join(s.baseDir, hex.EncodeToString(key))
}
