package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpvault/attestation-registry/interfaces"
)

func TestExamConfigCodec_RoundTrip(t *testing.T) {
	config := &interfaces.ExamConfig{
		ExamID:        "midterm1",
		Instructor:    interfaces.AccountAddress{0x01, 0x02},
		StartTime:     1000,
		EndTime:       4600,
		MinTrustScore: 70,
		IsActive:      true,
	}

	data, err := encodeExamConfig(config)
	require.NoError(t, err)

	decoded, err := decodeExamConfig(data)
	require.NoError(t, err)
	assert.Equal(t, config, decoded)
}

func TestAttestationCodec_RoundTrip(t *testing.T) {
	att := &interfaces.Attestation{
		IdentityHash: interfaces.IdentityHash{0xaa},
		TrustScore:   80,
		ProofHash:    interfaces.ProofHash{0xbb},
		Timestamp:    2000,
		ExamID:       "midterm1",
	}

	data, err := encodeAttestation(att)
	require.NoError(t, err)

	decoded, err := decodeAttestation(data)
	require.NoError(t, err)
	assert.Equal(t, att, decoded)
}

func TestDecode_RejectsUnknownVersion(t *testing.T) {
	data, err := rlp.EncodeToBytes(&storedExamConfig{
		Version: recordFormatVersion + 1,
		ExamID:  "midterm1",
	})
	require.NoError(t, err)

	_, err = decodeExamConfig(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := decodeExamConfig([]byte{0xff, 0x00, 0x01})
	require.Error(t, err)

	_, err = decodeAttestation([]byte{0xff, 0x00, 0x01})
	require.Error(t, err)
}
