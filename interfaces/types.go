package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AccountAddress identifies a caller: the administrative authority, an
// instructor, or any other identity the invocation environment authenticates.
type AccountAddress [20]byte

// NewAccountAddressFromBytes creates an account address from a raw byte slice.
func NewAccountAddressFromBytes(addr []byte) (AccountAddress, error) {
	if len(addr) != 20 {
		return AccountAddress{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res AccountAddress
	copy(res[:], addr)
	return res, nil
}

// NewAccountAddressFromHex creates an account address from a hex string,
// with or without a 0x prefix.
func NewAccountAddressFromHex(addr string) (AccountAddress, error) {
	clean := strings.TrimPrefix(addr, "0x")
	if len(clean) != 40 {
		return AccountAddress{}, errors.New("invalid address length: hex string must be 40 characters")
	}

	addrBytes, err := hex.DecodeString(clean)
	if err != nil {
		return AccountAddress{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewAccountAddressFromBytes(addrBytes)
}

// String returns the hex string representation of the account address.
func (addr AccountAddress) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns the raw 20-byte address.
func (addr AccountAddress) Bytes() []byte {
	return addr[:]
}

// Equal compares two account addresses for equality.
func (addr AccountAddress) Equal(other AccountAddress) bool {
	return addr == other
}

// IdentityHash is a 32-byte privacy-preserving pseudonym for a submitter.
// The registry stores it opaquely and never inspects how it was derived.
type IdentityHash [32]byte

// NewIdentityHashFromBytes creates an identity hash from a raw byte slice.
func NewIdentityHashFromBytes(source []byte) (IdentityHash, error) {
	if len(source) != 32 {
		return IdentityHash{}, errors.New("invalid identity hash length: must be 32 bytes")
	}

	var hash IdentityHash
	copy(hash[:], source)
	return hash, nil
}

// NewIdentityHashFromHex creates an identity hash from a 64-character hex
// string, with or without a 0x prefix.
func NewIdentityHashFromHex(source string) (IdentityHash, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return IdentityHash{}, errors.New("invalid identity hash length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return IdentityHash{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewIdentityHashFromBytes(hashBytes)
}

// String returns the hex representation.
func (h IdentityHash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the raw 32-byte hash.
func (h IdentityHash) Bytes() []byte {
	return h[:]
}

// ProofHash is a 32-byte content hash of off-store proof material. Like
// IdentityHash it is opaque to the registry; verifying what it commits to
// is a collaborator's job.
type ProofHash [32]byte

// NewProofHashFromBytes creates a proof hash from a raw byte slice.
func NewProofHashFromBytes(source []byte) (ProofHash, error) {
	if len(source) != 32 {
		return ProofHash{}, errors.New("invalid proof hash length: must be 32 bytes")
	}

	var hash ProofHash
	copy(hash[:], source)
	return hash, nil
}

// NewProofHashFromHex creates a proof hash from a 64-character hex string,
// with or without a 0x prefix.
func NewProofHashFromHex(source string) (ProofHash, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return ProofHash{}, errors.New("invalid proof hash length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ProofHash{}, fmt.Errorf("invalid hex format: %w", err)
	}

	return NewProofHashFromBytes(hashBytes)
}

// String returns the hex representation.
func (h ProofHash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the raw 32-byte hash.
func (h ProofHash) Bytes() []byte {
	return h[:]
}

// MaxExamIDLength bounds exam identifiers so that every record key fits in
// a bounded storage slot.
const MaxExamIDLength = 64

// ExamID is the opaque unique identifier of a registered exam.
type ExamID string

// NewExamID validates and returns an exam identifier.
func NewExamID(id string) (ExamID, error) {
	examID := ExamID(id)
	return examID, examID.Validate()
}

// Validate checks the identifier is non-empty and within the length bound.
func (id ExamID) Validate() error {
	if len(id) == 0 {
		return errors.New("exam id must not be empty")
	}
	if len(id) > MaxExamIDLength {
		return fmt.Errorf("exam id exceeds %d bytes", MaxExamIDLength)
	}
	return nil
}

// String returns the identifier as a plain string.
func (id ExamID) String() string {
	return string(id)
}

// MaxTrustScore is the upper bound of the trust score scale.
const MaxTrustScore = 100
