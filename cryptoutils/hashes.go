// Package cryptoutils provides the hash derivations proctoring agents use
// to produce the opaque values the registry stores: Keccak-256 identity
// pseudonyms and SHA-256 proof content hashes. The registry itself never
// depends on these being used; any 32-byte values are accepted.
package cryptoutils

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// IdentityHashFor derives a privacy-preserving pseudonym from a student
// identity and a per-deployment salt. The salt keeps pseudonyms unlinkable
// across deployments that share student identifiers.
func IdentityHashFor(identity, salt []byte) interfaces.IdentityHash {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(salt)
	hasher.Write(identity)

	var hash interfaces.IdentityHash
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// ProofHashFor computes the content hash of proof material kept off-store.
func ProofHashFor(proofData []byte) interfaces.ProofHash {
	return interfaces.ProofHash(sha256.Sum256(proofData))
}
