package registry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpvault/attestation-registry/interfaces"
	"github.com/zkpvault/attestation-registry/storage"
)

var (
	authority  = interfaces.AccountAddress{0x01}
	instructor = authority
	stranger   = interfaces.AccountAddress{0x02}

	studentHash  = interfaces.IdentityHash{0xaa, 0xbb}
	student2Hash = interfaces.IdentityHash{0xcc, 0xdd}

	testProofHash = interfaces.ProofHash{0xde, 0xad, 0xbe, 0xef}
)

func newTestRegistry(t *testing.T) (*Registry, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(authority, store, logger), store
}

func at(caller interfaces.AccountAddress, now uint64) Invocation {
	return Invocation{Caller: caller, Time: now}
}

func TestCreateExam_Success(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	config, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	assert.Equal(t, interfaces.ExamID("midterm1"), config.ExamID)
	assert.Equal(t, authority, config.Instructor)
	assert.Equal(t, uint64(1000), config.StartTime)
	assert.Equal(t, uint64(4600), config.EndTime)
	assert.Equal(t, uint64(70), config.MinTrustScore)
	assert.True(t, config.IsActive)

	// Same config must be readable back
	stored, err := reg.GetExamMetadata(ctx, "midterm1")
	require.NoError(t, err)
	assert.Equal(t, config, stored)
}

func TestCreateExam_Unauthorized(t *testing.T) {
	reg, store := newTestRegistry(t)

	_, err := reg.CreateExam(context.Background(), at(stranger, 1000), "midterm1", 60, 70)
	require.ErrorIs(t, err, interfaces.ErrUnauthorized)
	assert.Equal(t, 0, store.Len(), "failed create must leave storage unchanged")
}

func TestCreateExam_InvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		examID   interfaces.ExamID
		duration uint64
		minScore uint64
	}{
		{"zero duration", "exam", 0, 50},
		{"score above scale", "exam", 60, 101},
		{"empty exam id", "", 60, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, store := newTestRegistry(t)

			_, err := reg.CreateExam(context.Background(), at(authority, 1000), tt.examID, tt.duration, tt.minScore)
			require.ErrorIs(t, err, interfaces.ErrInvalidArgument)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestCreateExam_AlreadyExists(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	_, err = reg.CreateExam(ctx, at(authority, 2000), "midterm1", 30, 50)
	require.ErrorIs(t, err, interfaces.ErrExamAlreadyExists)

	// Original config must be untouched
	config, err := reg.GetExamMetadata(ctx, "midterm1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), config.StartTime)
	assert.Equal(t, uint64(70), config.MinTrustScore)
}

func TestSubmitProof_Success(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	att, err := reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 80, testProofHash)
	require.NoError(t, err)

	assert.Equal(t, studentHash, att.IdentityHash)
	assert.Equal(t, uint64(80), att.TrustScore)
	assert.Equal(t, testProofHash, att.ProofHash)
	assert.Equal(t, uint64(2000), att.Timestamp)
	assert.Equal(t, interfaces.ExamID("midterm1"), att.ExamID)

	stored, err := reg.GetProof(ctx, "midterm1", studentHash)
	require.NoError(t, err)
	assert.Equal(t, att, stored)

	exists, err := reg.VerifyProofExists(ctx, "midterm1", studentHash)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSubmitProof_ExamNotFound(t *testing.T) {
	reg, store := newTestRegistry(t)

	_, err := reg.SubmitProof(context.Background(), at(stranger, 2000), "absent", studentHash, 80, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrExamNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSubmitProof_WindowBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		now     uint64
		wantErr error
	}{
		{"before start", 999, interfaces.ErrOutOfWindow},
		{"at start", 1000, nil},
		{"inside window", 2000, nil},
		{"at end", 4600, nil},
		{"after end", 4601, interfaces.ErrOutOfWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			ctx := context.Background()

			_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
			require.NoError(t, err)

			_, err = reg.SubmitProof(ctx, at(stranger, tt.now), "midterm1", studentHash, 80, testProofHash)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSubmitProof_ScoreChecks(t *testing.T) {
	tests := []struct {
		name    string
		score   uint64
		wantErr error
	}{
		{"above scale", 101, interfaces.ErrInvalidArgument},
		{"below threshold", 69, interfaces.ErrBelowThreshold},
		{"at threshold", 70, nil},
		{"above threshold", 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			ctx := context.Background()

			_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
			require.NoError(t, err)

			_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, tt.score, testProofHash)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSubmitProof_ScaleCheckedBeforeThreshold(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	// Threshold above the scale ceiling: 101 must still report InvalidArgument,
	// not BelowThreshold.
	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 100)
	require.NoError(t, err)

	_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 101, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrInvalidArgument)
	require.NotErrorIs(t, err, interfaces.ErrBelowThreshold)
}

func TestSubmitProof_Duplicate(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 80, testProofHash)
	require.NoError(t, err)

	recordsBefore := store.Len()

	// Repeat fails regardless of the score and proof supplied
	_, err = reg.SubmitProof(ctx, at(stranger, 2100), "midterm1", studentHash, 90, interfaces.ProofHash{0x11})
	require.ErrorIs(t, err, interfaces.ErrDuplicateSubmission)
	assert.Equal(t, recordsBefore, store.Len())

	// The original attestation is still the stored one
	stored, err := reg.GetProof(ctx, "midterm1", studentHash)
	require.NoError(t, err)
	assert.Equal(t, uint64(80), stored.TrustScore)
	assert.Equal(t, testProofHash, stored.ProofHash)
}

func TestSubmitProof_DistinctIdentities(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 80, testProofHash)
	require.NoError(t, err)

	_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", student2Hash, 75, testProofHash)
	require.NoError(t, err)
}

func TestSubmitProof_ClosedBeforeWindowCheck(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)
	_, err = reg.CloseExam(ctx, at(instructor, 1500), "midterm1")
	require.NoError(t, err)

	// Closed and out of window: the active check wins.
	_, err = reg.SubmitProof(ctx, at(stranger, 9999), "midterm1", studentHash, 80, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrExamClosed)
}

func TestCloseExam(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	// Non-instructor cannot close
	_, err = reg.CloseExam(ctx, at(stranger, 1500), "midterm1")
	require.ErrorIs(t, err, interfaces.ErrUnauthorized)

	config, err := reg.CloseExam(ctx, at(instructor, 1500), "midterm1")
	require.NoError(t, err)
	assert.False(t, config.IsActive)

	stored, err := reg.GetExamMetadata(ctx, "midterm1")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// Re-closing succeeds silently
	config, err = reg.CloseExam(ctx, at(instructor, 1600), "midterm1")
	require.NoError(t, err)
	assert.False(t, config.IsActive)
}

func TestCloseExam_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.CloseExam(context.Background(), at(instructor, 1500), "absent")
	require.ErrorIs(t, err, interfaces.ErrExamNotFound)
}

func TestGetProof_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.GetProof(ctx, "midterm1", studentHash)
	require.ErrorIs(t, err, interfaces.ErrProofNotFound)

	exists, err := reg.VerifyProofExists(ctx, "midterm1", studentHash)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConcurrentDuplicateSubmission(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 80, testProofHash)
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, interfaces.ErrDuplicateSubmission):
			duplicates++
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent submission must win")
	assert.Equal(t, attempts-1, duplicates)
}

// Full lifecycle: create, reject below threshold, accept, reject duplicate,
// close, reject against closed exam.
func TestExamLifecycle(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	config, err := reg.CreateExam(ctx, at(authority, 1000), "midterm1", 60, 70)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), config.StartTime)
	require.Equal(t, uint64(4600), config.EndTime)

	_, err = reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 65, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrBelowThreshold)

	att, err := reg.SubmitProof(ctx, at(stranger, 2000), "midterm1", studentHash, 80, testProofHash)
	require.NoError(t, err)

	stored, err := reg.GetProof(ctx, "midterm1", studentHash)
	require.NoError(t, err)
	require.Equal(t, att, stored)

	_, err = reg.SubmitProof(ctx, at(stranger, 2100), "midterm1", studentHash, 90, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrDuplicateSubmission)

	_, err = reg.CloseExam(ctx, at(instructor, 2200), "midterm1")
	require.NoError(t, err)

	_, err = reg.SubmitProof(ctx, at(stranger, 2300), "midterm1", student2Hash, 95, testProofHash)
	require.ErrorIs(t, err, interfaces.ErrExamClosed)
}
