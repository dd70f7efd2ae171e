package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zkpvault/attestation-registry/interfaces"
)

const (
	// CallerHeader carries the hex-encoded account address of the caller,
	// as authenticated by the upstream gateway.
	CallerHeader = "X-Zkpvault-Caller"

	// maxBodySize is the maximum allowed request body size (1MB).
	maxBodySize = 1024 * 1024
)

// CreateExamRequest is the body of POST /api/exams.
type CreateExamRequest struct {
	ExamID          string `json:"exam_id"`
	DurationMinutes uint64 `json:"duration_minutes"`
	MinTrustScore   uint64 `json:"min_trust_score"`
}

// SubmitProofRequest is the body of POST /api/exams/{exam_id}/proofs.
type SubmitProofRequest struct {
	IdentityHash string `json:"identity_hash"`
	TrustScore   uint64 `json:"trust_score"`
	ProofHash    string `json:"proof_hash"`
}

// ExamConfigResponse mirrors interfaces.ExamConfig on the wire.
type ExamConfigResponse struct {
	ExamID        string `json:"exam_id"`
	Instructor    string `json:"instructor"`
	StartTime     uint64 `json:"start_time"`
	EndTime       uint64 `json:"end_time"`
	MinTrustScore uint64 `json:"min_trust_score"`
	IsActive      bool   `json:"is_active"`
}

// AttestationResponse mirrors interfaces.Attestation on the wire.
type AttestationResponse struct {
	ExamID       string `json:"exam_id"`
	IdentityHash string `json:"identity_hash"`
	TrustScore   uint64 `json:"trust_score"`
	ProofHash    string `json:"proof_hash"`
	Timestamp    uint64 `json:"timestamp"`
}

// ProofExistsResponse is the body of the proof existence probe.
type ProofExistsResponse struct {
	Exists bool `json:"exists"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler translates HTTP requests into registry invocations.
type Handler struct {
	registry interfaces.ExamRegistry
	clock    Clock
	log      *slog.Logger
}

// NewHandler creates an HTTP handler over the given registry. The clock
// supplies the current time attached to every invocation.
func NewHandler(registry interfaces.ExamRegistry, clock Clock, log *slog.Logger) *Handler {
	return &Handler{registry: registry, clock: clock, log: log}
}

// HandleCreateExam handles POST /api/exams.
func (h *Handler) HandleCreateExam(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req CreateExamRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	call := interfaces.Invocation{Caller: caller, Time: h.clock.Now()}
	config, err := h.registry.CreateExam(r.Context(), call, interfaces.ExamID(req.ExamID), req.DurationMinutes, req.MinTrustScore)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, examConfigResponse(config))
}

// HandleGetExamMetadata handles GET /api/exams/{exam_id}.
func (h *Handler) HandleGetExamMetadata(w http.ResponseWriter, r *http.Request) {
	examID := interfaces.ExamID(chi.URLParam(r, "exam_id"))

	config, err := h.registry.GetExamMetadata(r.Context(), examID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, examConfigResponse(config))
}

// HandleCloseExam handles POST /api/exams/{exam_id}/close.
func (h *Handler) HandleCloseExam(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	examID := interfaces.ExamID(chi.URLParam(r, "exam_id"))
	call := interfaces.Invocation{Caller: caller, Time: h.clock.Now()}

	config, err := h.registry.CloseExam(r.Context(), call, examID)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, examConfigResponse(config))
}

// HandleSubmitProof handles POST /api/exams/{exam_id}/proofs.
func (h *Handler) HandleSubmitProof(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req SubmitProofRequest
	if err := decodeJSONBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	identityHash, err := interfaces.NewIdentityHashFromHex(req.IdentityHash)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	proofHash, err := interfaces.NewProofHashFromHex(req.ProofHash)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	examID := interfaces.ExamID(chi.URLParam(r, "exam_id"))
	call := interfaces.Invocation{Caller: caller, Time: h.clock.Now()}

	att, err := h.registry.SubmitProof(r.Context(), call, examID, identityHash, req.TrustScore, proofHash)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, attestationResponse(att))
}

// HandleGetProof handles GET /api/exams/{exam_id}/proofs/{identity_hash}.
func (h *Handler) HandleGetProof(w http.ResponseWriter, r *http.Request) {
	examID := interfaces.ExamID(chi.URLParam(r, "exam_id"))
	identityHash, err := interfaces.NewIdentityHashFromHex(chi.URLParam(r, "identity_hash"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	att, err := h.registry.GetProof(r.Context(), examID, identityHash)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, attestationResponse(att))
}

// HandleVerifyProofExists handles
// GET /api/exams/{exam_id}/proofs/{identity_hash}/exists.
func (h *Handler) HandleVerifyProofExists(w http.ResponseWriter, r *http.Request) {
	examID := interfaces.ExamID(chi.URLParam(r, "exam_id"))
	identityHash, err := interfaces.NewIdentityHashFromHex(chi.URLParam(r, "identity_hash"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	exists, err := h.registry.VerifyProofExists(r.Context(), examID, identityHash)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ProofExistsResponse{Exists: exists})
}

// statusForRegistryError maps registry error kinds onto HTTP status codes.
func statusForRegistryError(err error) int {
	switch {
	case errors.Is(err, interfaces.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, interfaces.ErrExamNotFound),
		errors.Is(err, interfaces.ErrProofNotFound):
		return http.StatusNotFound
	case errors.Is(err, interfaces.ErrExamAlreadyExists),
		errors.Is(err, interfaces.ErrExamClosed),
		errors.Is(err, interfaces.ErrDuplicateSubmission):
		return http.StatusConflict
	case errors.Is(err, interfaces.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrOutOfWindow),
		errors.Is(err, interfaces.ErrBelowThreshold):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeRegistryError(w http.ResponseWriter, err error) {
	status := statusForRegistryError(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Registry operation failed", "err", err)
		// Do not leak internals
		h.writeError(w, status, errors.New("internal error"))
		return
	}
	h.writeError(w, status, err)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func callerFromRequest(r *http.Request) (interfaces.AccountAddress, error) {
	header := r.Header.Get(CallerHeader)
	if header == "" {
		return interfaces.AccountAddress{}, fmt.Errorf("missing %s header", CallerHeader)
	}
	return interfaces.NewAccountAddressFromHex(header)
}

func decodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func examConfigResponse(config *interfaces.ExamConfig) ExamConfigResponse {
	return ExamConfigResponse{
		ExamID:        config.ExamID.String(),
		Instructor:    config.Instructor.String(),
		StartTime:     config.StartTime,
		EndTime:       config.EndTime,
		MinTrustScore: config.MinTrustScore,
		IsActive:      config.IsActive,
	}
}

func attestationResponse(att *interfaces.Attestation) AttestationResponse {
	return AttestationResponse{
		ExamID:       att.ExamID.String(),
		IdentityHash: att.IdentityHash.String(),
		TrustScore:   att.TrustScore,
		ProofHash:    att.ProofHash.String(),
		Timestamp:    att.Timestamp,
	}
}
