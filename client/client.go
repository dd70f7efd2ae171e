// Package client provides a typed HTTP client for the registry API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/zkpvault/attestation-registry/httpserver"
	"github.com/zkpvault/attestation-registry/interfaces"
)

// Client calls the registry API server. Caller is sent as the authenticated
// identity header on every mutating request.
type Client struct {
	// ServerAddr is the base URL of the registry server
	ServerAddr string

	// Caller is the account address presented as the caller identity
	Caller interfaces.AccountAddress

	// HTTPClient is the client used for requests; http.DefaultClient if nil
	HTTPClient *http.Client
}

// CreateExam registers a new exam.
func (c *Client) CreateExam(ctx context.Context, examID interfaces.ExamID, durationMinutes, minTrustScore uint64) (*httpserver.ExamConfigResponse, error) {
	req := httpserver.CreateExamRequest{
		ExamID:          examID.String(),
		DurationMinutes: durationMinutes,
		MinTrustScore:   minTrustScore,
	}

	var resp httpserver.ExamConfigResponse
	err := c.do(ctx, http.MethodPost, "/api/exams", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitProof records an attestation for an exam.
func (c *Client) SubmitProof(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash, trustScore uint64, proofHash interfaces.ProofHash) (*httpserver.AttestationResponse, error) {
	req := httpserver.SubmitProofRequest{
		IdentityHash: identityHash.String(),
		TrustScore:   trustScore,
		ProofHash:    proofHash.String(),
	}

	var resp httpserver.AttestationResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/exams/%s/proofs", url.PathEscape(examID.String())), req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProof retrieves a stored attestation.
func (c *Client) GetProof(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (*httpserver.AttestationResponse, error) {
	var resp httpserver.AttestationResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/exams/%s/proofs/%s", url.PathEscape(examID.String()), identityHash.String()), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetExamMetadata retrieves an exam's configuration.
func (c *Client) GetExamMetadata(ctx context.Context, examID interfaces.ExamID) (*httpserver.ExamConfigResponse, error) {
	var resp httpserver.ExamConfigResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/exams/%s", url.PathEscape(examID.String())), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CloseExam deactivates an exam.
func (c *Client) CloseExam(ctx context.Context, examID interfaces.ExamID) (*httpserver.ExamConfigResponse, error) {
	var resp httpserver.ExamConfigResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/exams/%s/close", url.PathEscape(examID.String())), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyProofExists reports whether an attestation exists for the pair.
func (c *Client) VerifyProofExists(ctx context.Context, examID interfaces.ExamID, identityHash interfaces.IdentityHash) (bool, error) {
	var resp httpserver.ProofExistsResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/exams/%s/proofs/%s/exists", url.PathEscape(examID.String()), identityHash.String()), nil, &resp)
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ServerAddr+path, reader)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(httpserver.CallerHeader, c.Caller.String())

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not request registry endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp httpserver.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("registry endpoint returned error %d", resp.StatusCode)
		}
		return fmt.Errorf("registry endpoint returned error %d: %s", resp.StatusCode, errResp.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("could not parse registry response: %w", err)
	}
	return nil
}
