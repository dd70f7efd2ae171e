package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zkpvault/attestation-registry/interfaces"
)

func TestRecordKeys_Distinct(t *testing.T) {
	hash := interfaces.IdentityHash{0x01}

	// Exam and proof keys for the same exam never collide
	assert.NotEqual(t, examKey("midterm1"), proofKey("midterm1", hash))

	// Different exams map to different keys
	assert.NotEqual(t, examKey("midterm1"), examKey("midterm2"))
	assert.NotEqual(t, proofKey("midterm1", hash), proofKey("midterm2", hash))

	// Different identities map to different keys
	assert.NotEqual(t,
		proofKey("midterm1", interfaces.IdentityHash{0x01}),
		proofKey("midterm1", interfaces.IdentityHash{0x02}))
}

func TestProofKey_InjectionProof(t *testing.T) {
	// Exam ids that would collide under naive separator-based concatenation
	// must still yield distinct keys. With 32-byte identity hashes the
	// ambiguity moves into the exam id field, so exam ids that are
	// prefix-shifted variants of each other are the interesting case.
	hash := interfaces.IdentityHash{}

	a := proofKey("exam_a", hash)
	b := proofKey("exam", hash)
	assert.NotEqual(t, a, b)

	// The id length is part of the key, so no id can masquerade as another
	// id plus trailing bytes of the hash.
	assert.NotEqual(t, examKey("ab"), examKey("a"))
}
