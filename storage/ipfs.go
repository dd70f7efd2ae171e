package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// IPFSStore implements a record store on an IPFS node's Mutable File System.
// MFS gives IPFS the keyed point-lookup semantics a record store needs:
// FilesWrite, FilesRead and FilesStat map directly onto Put, Get and Length.
type IPFSStore struct {
	shell       *shell.Shell
	host        string
	port        string
	rootDir     string
	log         *slog.Logger
	locationURI string
}

// NewIPFSStore creates a new IPFS-backed record store connected to the
// specified node API. Records live under rootDir in the node's MFS.
func NewIPFSStore(host, port, rootDir string, log *slog.Logger) (*IPFSStore, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)

	rootDir = "/" + strings.Trim(rootDir, "/")

	return &IPFSStore{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		rootDir:     rootDir,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s%s", apiURL, rootDir),
	}, nil
}

// Exists reports whether a record file exists for key.
func (s *IPFSStore) Exists(ctx context.Context, key []byte) (bool, error) {
	length, err := s.Length(ctx, key)
	if err != nil {
		return false, err
	}
	return length > 0, nil
}

// Get retrieves the value stored for key. Returns ErrRecordNotFound if the
// MFS file doesn't exist or ErrStoreUnavailable if the node is unreachable.
func (s *IPFSStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	filePath := s.filePath(key)

	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable",
			slog.String("host", s.host),
			slog.String("port", s.port))
		return nil, interfaces.ErrStoreUnavailable
	}

	reader, err := s.shell.FilesRead(ctx, filePath)
	if err != nil {
		if isIPFSNotFound(err) {
			s.log.Debug("Record not found in IPFS",
				slog.String("path", filePath),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read IPFS response: %w", err)
	}

	s.log.Debug("Fetched record from IPFS",
		slog.String("path", filePath),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// Put stores value for key, creating or truncating the MFS file.
func (s *IPFSStore) Put(ctx context.Context, key, value []byte) error {
	start := time.Now()
	filePath := s.filePath(key)

	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable",
			slog.String("host", s.host),
			slog.String("port", s.port))
		return interfaces.ErrStoreUnavailable
	}

	err := s.shell.FilesWrite(ctx, filePath, bytes.NewReader(value),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		return fmt.Errorf("failed to write to IPFS: %w", err)
	}

	s.log.Debug("Stored record in IPFS",
		slog.String("path", filePath),
		slog.Int("size", len(value)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Length returns the MFS file's size in bytes, or 0 if absent.
func (s *IPFSStore) Length(ctx context.Context, key []byte) (uint64, error) {
	filePath := s.filePath(key)

	if !s.shell.IsUp() {
		return 0, interfaces.ErrStoreUnavailable
	}

	stat, err := s.shell.FilesStat(ctx, filePath)
	if err != nil {
		if isIPFSNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat IPFS file: %w", err)
	}
	return stat.Size, nil
}

// LocationURI returns the URI that identifies this record store.
func (s *IPFSStore) LocationURI() string {
	return s.locationURI
}

func (s *IPFSStore) filePath(key []byte) string {
	return path.Join(s.rootDir, hex.EncodeToString(key))
}

func isIPFSNotFound(err error) bool {
	return strings.Contains(err.Error(), "does not exist") ||
		strings.Contains(err.Error(), "no link named")
}
