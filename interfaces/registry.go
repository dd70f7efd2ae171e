package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized is returned when the caller is not the required
	// authority for the operation.
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrExamNotFound is returned when the referenced exam does not exist.
	ErrExamNotFound = errors.New("exam not found")

	// ErrProofNotFound is returned when no attestation exists for the
	// requested exam and identity.
	ErrProofNotFound = errors.New("proof not found")

	// ErrExamAlreadyExists is returned when registering an exam id that is
	// already present.
	ErrExamAlreadyExists = errors.New("exam already exists")

	// ErrInvalidArgument is returned for an out-of-range trust score or a
	// non-positive duration.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrExamClosed is returned when submitting against an inactive exam.
	ErrExamClosed = errors.New("exam is closed")

	// ErrOutOfWindow is returned when submitting outside the exam's
	// [start, end] window.
	ErrOutOfWindow = errors.New("outside exam window")

	// ErrBelowThreshold is returned when the trust score is below the
	// exam's configured minimum.
	ErrBelowThreshold = errors.New("trust score below minimum")

	// ErrDuplicateSubmission is returned when an attestation already exists
	// for the (exam, identity) pair.
	ErrDuplicateSubmission = errors.New("proof already submitted")
)

// Invocation carries the ambient values the execution environment supplies
// per call: the authenticated caller identity and the current time (unix
// seconds). The registry never chooses either itself.
type Invocation struct {
	Caller AccountAddress
	Time   uint64
}

// ExamRegistry owns exam lifecycle and attestation submission. Every
// mutating operation validates all preconditions before performing exactly
// one atomic write; a failed precondition aborts the invocation with zero
// side effects.
type ExamRegistry interface {
	// CreateExam registers a new exam open from call.Time for the given
	// number of minutes. Only the administrative authority may call it.
	// Fails with ErrUnauthorized, ErrInvalidArgument, or
	// ErrExamAlreadyExists.
	CreateExam(ctx context.Context, call Invocation, examID ExamID, durationMinutes uint64, minTrustScore uint64) (*ExamConfig, error)

	// SubmitProof records an attestation for (examID, identityHash).
	// Preconditions are checked in a fixed order, each with its own error
	// kind: exam exists, exam active, inside window, score within scale,
	// score meets threshold, no prior submission.
	SubmitProof(ctx context.Context, call Invocation, examID ExamID, identityHash IdentityHash, trustScore uint64, proofHash ProofHash) (*Attestation, error)

	// GetProof retrieves a stored attestation. Fails with ErrProofNotFound.
	GetProof(ctx context.Context, examID ExamID, identityHash IdentityHash) (*Attestation, error)

	// GetExamMetadata retrieves an exam's configuration. Fails with
	// ErrExamNotFound.
	GetExamMetadata(ctx context.Context, examID ExamID) (*ExamConfig, error)

	// CloseExam deactivates an exam. Only the registering instructor may
	// call it. Closing an already-closed exam succeeds.
	CloseExam(ctx context.Context, call Invocation, examID ExamID) (*ExamConfig, error)

	// VerifyProofExists reports whether an attestation exists for the
	// (examID, identityHash) pair.
	VerifyProofExists(ctx context.Context, examID ExamID, identityHash IdentityHash) (bool, error)
}
