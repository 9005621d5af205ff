package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stroman-properties/owner-dashboard/internal/platform/mailer"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

type contactResponse struct {
	Message string `json:"message"`
}

// Contact handles POST /api/contact: a visitor-facing form relay to the
// site owner's inbox.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var msg mailer.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{Message: "All fields are required."})
		return
	}

	if !msg.Complete() {
		writeJSON(w, http.StatusBadRequest, contactResponse{Message: "All fields are required."})
		return
	}

	if err := h.mail.SendContact(msg); err != nil {
		logger.ErrorContext(r.Context(), "Failed to send contact email", "error", err)
		writeJSON(w, http.StatusInternalServerError, contactResponse{Message: "Unable to send email. Please try again later."})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{Message: "Email sent successfully."})
}
