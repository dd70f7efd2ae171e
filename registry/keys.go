package registry

import (
	"encoding/binary"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// Record key construction. Each key starts with a tag byte naming the
// record kind, followed by length-prefixed fields. The length prefixes make
// keys injection-proof: no choice of exam id can collide with another
// (exam, identity) pair's key, whatever bytes either field contains.
const (
	examKeyTag  = 0x01
	proofKeyTag = 0x02
)

// examKey returns the storage key of an exam's configuration record.
func examKey(examID interfaces.ExamID) []byte {
	key := make([]byte, 0, 1+binary.MaxVarintLen64+len(examID))
	key = append(key, examKeyTag)
	key = binary.AppendUvarint(key, uint64(len(examID)))
	key = append(key, examID...)
	return key
}

// proofKey returns the storage key of the attestation record for one
// (exam, identity) pair.
func proofKey(examID interfaces.ExamID, identityHash interfaces.IdentityHash) []byte {
	key := make([]byte, 0, 1+2*binary.MaxVarintLen64+len(examID)+len(identityHash))
	key = append(key, proofKeyTag)
	key = binary.AppendUvarint(key, uint64(len(examID)))
	key = append(key, examID...)
	key = binary.AppendUvarint(key, uint64(len(identityHash)))
	key = append(key, identityHash[:]...)
	return key
}
