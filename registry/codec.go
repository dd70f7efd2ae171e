package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// Stored records are RLP-encoded with an explicit format version as the
// first field, so the layout can evolve without ambiguity about what a
// given blob contains.
const recordFormatVersion = 1

type storedExamConfig struct {
	Version       uint8
	ExamID        string
	Instructor    [20]byte
	StartTime     uint64
	EndTime       uint64
	MinTrustScore uint64
	IsActive      bool
}

type storedAttestation struct {
	Version      uint8
	IdentityHash [32]byte
	TrustScore   uint64
	ProofHash    [32]byte
	Timestamp    uint64
	ExamID       string
}

func encodeExamConfig(config *interfaces.ExamConfig) ([]byte, error) {
	return rlp.EncodeToBytes(&storedExamConfig{
		Version:       recordFormatVersion,
		ExamID:        string(config.ExamID),
		Instructor:    config.Instructor,
		StartTime:     config.StartTime,
		EndTime:       config.EndTime,
		MinTrustScore: config.MinTrustScore,
		IsActive:      config.IsActive,
	})
}

func decodeExamConfig(data []byte) (*interfaces.ExamConfig, error) {
	var stored storedExamConfig
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("malformed exam config record: %w", err)
	}
	if stored.Version != recordFormatVersion {
		return nil, fmt.Errorf("unsupported exam config record version %d", stored.Version)
	}

	return &interfaces.ExamConfig{
		ExamID:        interfaces.ExamID(stored.ExamID),
		Instructor:    stored.Instructor,
		StartTime:     stored.StartTime,
		EndTime:       stored.EndTime,
		MinTrustScore: stored.MinTrustScore,
		IsActive:      stored.IsActive,
	}, nil
}

func encodeAttestation(att *interfaces.Attestation) ([]byte, error) {
	return rlp.EncodeToBytes(&storedAttestation{
		Version:      recordFormatVersion,
		IdentityHash: att.IdentityHash,
		TrustScore:   att.TrustScore,
		ProofHash:    att.ProofHash,
		Timestamp:    att.Timestamp,
		ExamID:       string(att.ExamID),
	})
}

func decodeAttestation(data []byte) (*interfaces.Attestation, error) {
	var stored storedAttestation
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("malformed attestation record: %w", err)
	}
	if stored.Version != recordFormatVersion {
		return nil, fmt.Errorf("unsupported attestation record version %d", stored.Version)
	}

	return &interfaces.Attestation{
		IdentityHash: stored.IdentityHash,
		TrustScore:   stored.TrustScore,
		ProofHash:    stored.ProofHash,
		Timestamp:    stored.Timestamp,
		ExamID:       interfaces.ExamID(stored.ExamID),
	}, nil
}
