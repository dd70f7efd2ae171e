package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpvault/attestation-registry/interfaces"
)

func TestRecordStoreLocation_Parse(t *testing.T) {
	loc, err := interfaces.NewRecordStoreLocation("s3://ak:sk@bucket/records?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "s3", loc.Scheme)
	assert.Equal(t, "bucket", loc.Host)
	assert.Equal(t, "/records", loc.Path)
	assert.Equal(t, "eu-west-1", loc.GetParam("region"))
	assert.Equal(t, "ak:sk", loc.Auth)

	_, err = interfaces.NewRecordStoreLocation("carrier-pigeon://somewhere")
	require.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactory_MemoryStore(t *testing.T) {
	factory := NewRecordStoreFactory(testLogger())

	loc, err := interfaces.NewRecordStoreLocation("memory://")
	require.NoError(t, err)

	store, err := factory.RecordStoreFor(loc)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestFactory_FileStore(t *testing.T) {
	factory := NewRecordStoreFactory(testLogger())

	loc, err := interfaces.NewRecordStoreLocation(fmt.Sprintf("file://%s", t.TempDir()))
	require.NoError(t, err)

	store, err := factory.RecordStoreFor(loc)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
}

func TestFactory_FileStoreRequiresPath(t *testing.T) {
	factory := NewRecordStoreFactory(testLogger())

	loc, err := interfaces.NewRecordStoreLocation("file://")
	require.NoError(t, err)

	_, err = factory.RecordStoreFor(loc)
	require.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}

func TestFactory_VaultURIValidation(t *testing.T) {
	factory := NewRecordStoreFactory(testLogger())

	// Missing mount/path split
	loc, err := interfaces.NewRecordStoreLocation("vault://vault.example.com:8200/onlymount")
	require.NoError(t, err)
	_, err = factory.RecordStoreFor(loc)
	require.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	loc, err = interfaces.NewRecordStoreLocation("vault://vault.example.com:8200/secret/attestations?token=x")
	require.NoError(t, err)
	store, err := factory.RecordStoreFor(loc)
	require.NoError(t, err)
	assert.IsType(t, &VaultStore{}, store)
}
