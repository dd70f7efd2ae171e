package client

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpvault/attestation-registry/httpserver"
	"github.com/zkpvault/attestation-registry/interfaces"
	"github.com/zkpvault/attestation-registry/registry"
	"github.com/zkpvault/attestation-registry/storage"
)

type fixedClock struct {
	now uint64
}

func (c *fixedClock) Now() uint64 { return c.now }

func newTestServer(t *testing.T, authority interfaces.AccountAddress, clock httpserver.Clock) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(authority, storage.NewMemoryStore(), logger)
	h := httpserver.NewHandler(reg, clock, logger)

	mux := chi.NewRouter()
	mux.Post("/api/exams", h.HandleCreateExam)
	mux.Get("/api/exams/{exam_id}", h.HandleGetExamMetadata)
	mux.Post("/api/exams/{exam_id}/close", h.HandleCloseExam)
	mux.Post("/api/exams/{exam_id}/proofs", h.HandleSubmitProof)
	mux.Get("/api/exams/{exam_id}/proofs/{identity_hash}", h.HandleGetProof)
	mux.Get("/api/exams/{exam_id}/proofs/{identity_hash}/exists", h.HandleVerifyProofExists)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FullFlow(t *testing.T) {
	authority := interfaces.AccountAddress{0x01}
	clock := &fixedClock{now: 1000}
	srv := newTestServer(t, authority, clock)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminClient := &Client{ServerAddr: srv.URL, Caller: authority, HTTPClient: srv.Client()}
	proctorClient := &Client{ServerAddr: srv.URL, Caller: interfaces.AccountAddress{0x02}, HTTPClient: srv.Client()}

	config, err := adminClient.CreateExam(ctx, "midterm1", 60, 70)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), config.StartTime)
	assert.Equal(t, uint64(4600), config.EndTime)

	clock.now = 2000
	identityHash := interfaces.IdentityHash{0xaa}
	proofHash := interfaces.ProofHash{0xbb}

	att, err := proctorClient.SubmitProof(ctx, "midterm1", identityHash, 80, proofHash)
	require.NoError(t, err)
	assert.Equal(t, uint64(80), att.TrustScore)
	assert.Equal(t, uint64(2000), att.Timestamp)

	stored, err := proctorClient.GetProof(ctx, "midterm1", identityHash)
	require.NoError(t, err)
	assert.Equal(t, att, stored)

	exists, err := proctorClient.VerifyProofExists(ctx, "midterm1", identityHash)
	require.NoError(t, err)
	assert.True(t, exists)

	meta, err := proctorClient.GetExamMetadata(ctx, "midterm1")
	require.NoError(t, err)
	assert.True(t, meta.IsActive)

	closed, err := adminClient.CloseExam(ctx, "midterm1")
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
}

func TestClient_ServerErrorsAreSurfaced(t *testing.T) {
	authority := interfaces.AccountAddress{0x01}
	srv := newTestServer(t, authority, &fixedClock{now: 1000})
	ctx := context.Background()

	nonAuthority := &Client{ServerAddr: srv.URL, Caller: interfaces.AccountAddress{0x02}, HTTPClient: srv.Client()}

	_, err := nonAuthority.CreateExam(ctx, "midterm1", 60, 70)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = nonAuthority.GetExamMetadata(ctx, "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
