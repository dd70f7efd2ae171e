package storage

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// VaultStore implements a record store using HashiCorp Vault's KV v2
// engine. Each record is one secret at <mount>/data/<path>/<hex key> whose
// content field holds the base64-encoded value.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a new Vault-backed record store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: Vault KV v2 mount path (e.g. "secret")
//   - dataPath: path within the mount (e.g. "attestations")
//   - token: Vault token for authentication
//   - log: structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.TrimPrefix(dataPath, "/")
	dataPath = strings.TrimSuffix(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

// Exists reports whether a secret is stored for key.
func (s *VaultStore) Exists(ctx context.Context, key []byte) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == interfaces.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves the value stored for key using the KV v2 API.
func (s *VaultStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	keyStr := hex.EncodeToString(key)
	path := s.secretPath(keyStr)

	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		s.log.Error("Failed to read from Vault",
			slog.String("path", path),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		s.log.Debug("Record not found in Vault", slog.String("path", path))
		return nil, interfaces.ErrRecordNotFound
	}

	// KV v2 wraps the payload in a "data" map
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}

	content, ok := data["content"].(string)
	if !ok {
		return nil, fmt.Errorf("content key not found in Vault data")
	}

	value, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("invalid content encoding in Vault data: %w", err)
	}

	s.log.Debug("Fetched record from Vault",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))

	return value, nil
}

// Put stores value for key, creating or overwriting the secret.
func (s *VaultStore) Put(ctx context.Context, key, value []byte) error {
	start := time.Now()
	keyStr := hex.EncodeToString(key)
	path := s.secretPath(keyStr)

	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"content": base64.StdEncoding.EncodeToString(value),
		},
	}

	_, err := s.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		s.log.Error("Failed to write to Vault",
			slog.String("path", path),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	s.log.Debug("Stored record in Vault",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Length returns the stored value's byte length, or 0 if absent.
func (s *VaultStore) Length(ctx context.Context, key []byte) (uint64, error) {
	value, err := s.Get(ctx, key)
	if err == interfaces.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(len(value)), nil
}

// LocationURI returns the URI that identifies this record store.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

func (s *VaultStore) secretPath(keyStr string) string {
	return fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, keyStr)
}
