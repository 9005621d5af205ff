package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/stroman-properties/owner-dashboard/internal/http/response"
	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

// Proof files live in one bucket keyed by a fresh identifier, so an
// operator re-uploading the same filename never clobbers an earlier proof.
const (
	proofBucket      = "payment-proofs"
	maxProofFileSize = 10 << 20
)

type proofUploadResponse struct {
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl"`
}

// UploadPaymentProof handles POST /api/admin/payments/proof: stores a
// proof-of-payment file and returns its public URL for attachment to a
// payment record.
func (h *Handlers) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	_, err := h.auth.RequireOwner(r)
	if errors.Is(err, auth.ErrNotConfigured) {
		response.ConfigError(w, "Owner dashboard secret is not configured")
		return
	}
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxProofFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing proof file")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, maxProofFileSize))
	if err != nil {
		response.BadRequest(w, "Unreadable proof file")
		return
	}
	if len(body) == 0 {
		response.BadRequest(w, "Missing proof file")
		return
	}

	objectPath := uuid.NewString()
	if name := sanitizeFilename(header.Filename); name != "" {
		objectPath += "-" + name
	}

	result, err := h.uploads.Upload(r.Context(), proofBucket, objectPath, body, header.Header.Get("Content-Type"), false)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to upload payment proof", "error", err)
		response.InternalError(w, "Failed to upload payment proof")
		return
	}

	writeJSON(w, http.StatusOK, proofUploadResponse{Path: result.Path, PublicURL: result.PublicURL})
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
