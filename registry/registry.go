package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/zkpvault/attestation-registry/interfaces"
	"github.com/zkpvault/attestation-registry/storage"
)

const secondsPerMinute = 60

// Invocation aliases the caller/time pair every mutating operation receives.
type Invocation = interfaces.Invocation

// Registry implements interfaces.ExamRegistry on top of a KeyedRecordStore.
// The administrative authority permitted to register exams is fixed at
// construction time.
type Registry struct {
	authority  interfaces.AccountAddress
	store      interfaces.KeyedRecordStore
	transactor *storage.Transactor
	log        *slog.Logger
}

var _ interfaces.ExamRegistry = (*Registry)(nil)

// New creates a registry over the given record store. Only authority may
// register new exams.
func New(authority interfaces.AccountAddress, store interfaces.KeyedRecordStore, log *slog.Logger) *Registry {
	return &Registry{
		authority:  authority,
		store:      store,
		transactor: storage.NewTransactor(store),
		log:        log,
	}
}

// CreateExam registers a new exam open from call.Time for durationMinutes
// minutes. The exam id must not already be registered.
func (r *Registry) CreateExam(ctx context.Context, call Invocation, examID interfaces.ExamID, durationMinutes uint64, minTrustScore uint64) (*interfaces.ExamConfig, error) {
	var config *interfaces.ExamConfig

	err := r.transactor.Execute(ctx, func(tx storage.Transaction) error {
		if !call.Caller.Equal(r.authority) {
			return fmt.Errorf("%w: only the authority can create exams", interfaces.ErrUnauthorized)
		}
		if err := examID.Validate(); err != nil {
			return fmt.Errorf("%w: %v", interfaces.ErrInvalidArgument, err)
		}
		if durationMinutes == 0 {
			return fmt.Errorf("%w: duration must be positive", interfaces.ErrInvalidArgument)
		}
		if durationMinutes > (math.MaxUint64-call.Time)/secondsPerMinute {
			return fmt.Errorf("%w: duration too large", interfaces.ErrInvalidArgument)
		}
		if minTrustScore > interfaces.MaxTrustScore {
			return fmt.Errorf("%w: min trust score cannot exceed %d", interfaces.ErrInvalidArgument, interfaces.MaxTrustScore)
		}

		key := examKey(examID)
		exists, err := tx.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", interfaces.ErrExamAlreadyExists, examID)
		}

		config = &interfaces.ExamConfig{
			ExamID:        examID,
			Instructor:    call.Caller,
			StartTime:     call.Time,
			EndTime:       call.Time + durationMinutes*secondsPerMinute,
			MinTrustScore: minTrustScore,
			IsActive:      true,
		}

		value, err := encodeExamConfig(config)
		if err != nil {
			return err
		}
		return tx.Put(ctx, key, value)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("Exam created",
		slog.String("exam_id", examID.String()),
		slog.String("instructor", call.Caller.String()),
		slog.Uint64("start_time", config.StartTime),
		slog.Uint64("end_time", config.EndTime),
		slog.Uint64("min_trust_score", minTrustScore))

	return config, nil
}

// SubmitProof records an attestation for (examID, identityHash). The
// preconditions are checked in a fixed order so the reported error kind is
// deterministic: exam exists, exam active, inside window, score within
// scale, score meets threshold, no prior submission.
func (r *Registry) SubmitProof(ctx context.Context, call Invocation, examID interfaces.ExamID, identityHash interfaces.IdentityHash, trustScore uint64, proofHash interfaces.ProofHash) (*interfaces.Attestation, error) {
	var attestation *interfaces.Attestation

	err := r.transactor.Execute(ctx, func(tx storage.Transaction) error {
		exam, err := loadExamConfig(ctx, tx, examID)
		if err != nil {
			return err
		}

		if !exam.IsActive {
			return fmt.Errorf("%w: %s", interfaces.ErrExamClosed, examID)
		}
		if call.Time < exam.StartTime {
			return fmt.Errorf("%w: exam has not started", interfaces.ErrOutOfWindow)
		}
		if call.Time > exam.EndTime {
			return fmt.Errorf("%w: exam has ended", interfaces.ErrOutOfWindow)
		}
		if trustScore > interfaces.MaxTrustScore {
			return fmt.Errorf("%w: trust score cannot exceed %d", interfaces.ErrInvalidArgument, interfaces.MaxTrustScore)
		}
		if trustScore < exam.MinTrustScore {
			return fmt.Errorf("%w: score %d, minimum %d", interfaces.ErrBelowThreshold, trustScore, exam.MinTrustScore)
		}

		key := proofKey(examID, identityHash)
		exists, err := tx.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: exam %s", interfaces.ErrDuplicateSubmission, examID)
		}

		attestation = &interfaces.Attestation{
			IdentityHash: identityHash,
			TrustScore:   trustScore,
			ProofHash:    proofHash,
			Timestamp:    call.Time,
			ExamID:       examID,
		}

		value, err := encodeAttestation(attestation)
		if err != nil {
			return err
		}
		return tx.Put(ctx, key, value)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("Proof submitted",
		slog.String("exam_id", examID.String()),
		slog.String("identity_hash", identityHash.String()),
		slog.Uint64("trust_score", trustScore),
		slog.Uint64("timestamp", attestation.Timestamp))

	return attestation, nil
}

// GetProof retrieves a stored attestation.
func (r *Registry) GetProof(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (*interfaces.Attestation, error) {
	value, err := r.store.Get(ctx, proofKey(examID, identityHash))
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: exam %s", interfaces.ErrProofNotFound, examID)
	}
	if err != nil {
		return nil, err
	}
	return decodeAttestation(value)
}

// GetExamMetadata retrieves an exam's configuration.
func (r *Registry) GetExamMetadata(ctx context.Context, examID interfaces.ExamID) (*interfaces.ExamConfig, error) {
	value, err := r.store.Get(ctx, examKey(examID))
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrExamNotFound, examID)
	}
	if err != nil {
		return nil, err
	}
	return decodeExamConfig(value)
}

// CloseExam deactivates an exam. Only the registering instructor may close
// it. Closing an already-closed exam succeeds and writes the same state
// back.
func (r *Registry) CloseExam(ctx context.Context, call Invocation, examID interfaces.ExamID) (*interfaces.ExamConfig, error) {
	var config *interfaces.ExamConfig

	err := r.transactor.Execute(ctx, func(tx storage.Transaction) error {
		exam, err := loadExamConfig(ctx, tx, examID)
		if err != nil {
			return err
		}

		if !call.Caller.Equal(exam.Instructor) {
			return fmt.Errorf("%w: only the instructor can close the exam", interfaces.ErrUnauthorized)
		}

		exam.IsActive = false
		config = exam

		value, err := encodeExamConfig(exam)
		if err != nil {
			return err
		}
		return tx.Put(ctx, examKey(examID), value)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("Exam closed",
		slog.String("exam_id", examID.String()),
		slog.String("instructor", call.Caller.String()))

	return config, nil
}

// VerifyProofExists reports whether an attestation exists for the
// (examID, identityHash) pair.
func (r *Registry) VerifyProofExists(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (bool, error) {
	return r.store.Exists(ctx, proofKey(examID, identityHash))
}

func loadExamConfig(ctx context.Context, tx storage.Transaction, examID interfaces.ExamID) (*interfaces.ExamConfig, error) {
	value, err := tx.Get(ctx, examKey(examID))
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrExamNotFound, examID)
	}
	if err != nil {
		return nil, err
	}
	return decodeExamConfig(value)
}
