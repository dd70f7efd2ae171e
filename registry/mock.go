package registry

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zkpvault/attestation-registry/interfaces"
)

// MockExamRegistry mocks the interfaces.ExamRegistry interface.
type MockExamRegistry struct {
	mock.Mock
}

// CreateExam mocks the CreateExam method.
func (m *MockExamRegistry) CreateExam(ctx context.Context, call Invocation, examID interfaces.ExamID, durationMinutes uint64, minTrustScore uint64) (*interfaces.ExamConfig, error) {
	args := m.Called(ctx, call, examID, durationMinutes, minTrustScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.ExamConfig), args.Error(1)
}

// SubmitProof mocks the SubmitProof method.
func (m *MockExamRegistry) SubmitProof(ctx context.Context, call Invocation, examID interfaces.ExamID, identityHash interfaces.IdentityHash, trustScore uint64, proofHash interfaces.ProofHash) (*interfaces.Attestation, error) {
	args := m.Called(ctx, call, examID, identityHash, trustScore, proofHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Attestation), args.Error(1)
}

// GetProof mocks the GetProof method.
func (m *MockExamRegistry) GetProof(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (*interfaces.Attestation, error) {
	args := m.Called(ctx, examID, identityHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Attestation), args.Error(1)
}

// GetExamMetadata mocks the GetExamMetadata method.
func (m *MockExamRegistry) GetExamMetadata(ctx context.Context, examID interfaces.ExamID) (*interfaces.ExamConfig, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.ExamConfig), args.Error(1)
}

// CloseExam mocks the CloseExam method.
func (m *MockExamRegistry) CloseExam(ctx context.Context, call Invocation, examID interfaces.ExamID) (*interfaces.ExamConfig, error) {
	args := m.Called(ctx, call, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.ExamConfig), args.Error(1)
}

// VerifyProofExists mocks the VerifyProofExists method.
func (m *MockExamRegistry) VerifyProofExists(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (bool, error) {
	args := m.Called(ctx, examID, identityHash)
	return args.Bool(0), args.Error(1)
}
