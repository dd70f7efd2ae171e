package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrRecordNotFound is returned when no value is stored at the requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreUnavailable is returned when a record store backend is not
	// accessible. This could be due to network issues, authentication
	// failures, or service outages.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrInvalidLocationURI is returned when a record store location URI is
	// malformed or names an unsupported scheme.
	ErrInvalidLocationURI = errors.New("invalid record store location URI")
)

// KeyedRecordStore is the flat byte-addressed key/value namespace the exam
// registry consumes from its execution environment. Keys are opaque byte
// strings; values are opaque blobs. No iteration or ordering capability is
// exposed: every access is a point lookup by known key, and Put is the only
// mutator.
type KeyedRecordStore interface {
	// Exists reports whether a value is stored at key.
	Exists(ctx context.Context, key []byte) (bool, error)

	// Get retrieves the value stored at key. Returns ErrRecordNotFound if
	// absent.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Put stores value at key, creating or overwriting.
	Put(ctx context.Context, key, value []byte) error

	// Length returns the byte length of the value stored at key, or 0 if
	// absent. Callers probing for existence should prefer Exists.
	Length(ctx context.Context, key []byte) (uint64, error)
}

// RecordStoreLocation represents a parsed URI selecting a record store
// backend.
type RecordStoreLocation struct {
	Raw    string     // Original URI
	Scheme string     // Backend selector
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewRecordStoreLocation creates a record store location from a URI string
// with validation.
func NewRecordStoreLocation(uri string) (RecordStoreLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return RecordStoreLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "memory", "file", "postgres", "s3", "vault", "ipfs":
		// Valid scheme
	default:
		return RecordStoreLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return RecordStoreLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc RecordStoreLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc RecordStoreLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc RecordStoreLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}

// RecordStoreFactory creates record stores from location URIs.
type RecordStoreFactory interface {
	// RecordStoreFor creates a backend from a location URI.
	// Supports memory://, file://, postgres://, s3://, vault://, ipfs://
	RecordStoreFor(location RecordStoreLocation) (KeyedRecordStore, error)
}
