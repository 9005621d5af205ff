package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stroman-properties/owner-dashboard/internal/http/response"
	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/internal/service"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

type actionRequest struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ConfirmBooking handles POST /api/admin/bookings/verify
func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.dispatchAction(w, r, "confirm", h.actions.Confirm)
}

// ExpireBooking handles POST /api/admin/bookings/expire
func (h *Handlers) ExpireBooking(w http.ResponseWriter, r *http.Request) {
	h.dispatchAction(w, r, "expire", h.actions.Expire)
}

// CancelBooking handles POST /api/admin/bookings/cancel
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.dispatchAction(w, r, "cancel", h.actions.Cancel)
}

func (h *Handlers) dispatchAction(w http.ResponseWriter, r *http.Request, name string, action func(context.Context, string) error) {
	owner, err := h.auth.RequireOwner(r)
	if errors.Is(err, auth.ErrNotConfigured) {
		response.ConfigError(w, "Owner dashboard secret is not configured")
		return
	}
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	ctx := context.WithValue(r.Context(), logger.ActorKey, owner.Actor)

	if err := action(ctx, req.InvoiceNumber); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingInvoice):
			response.BadRequest(w, "Missing invoice number")
		case errors.Is(err, auth.ErrNotConfigured):
			response.ConfigError(w, "Owner dashboard secret is not configured")
		default:
			var upstream *service.UpstreamError
			if errors.As(err, &upstream) {
				response.UpstreamError(w, upstream.Error())
				return
			}
			logger.ErrorContext(ctx, "Booking action failed", "action", name, "error", err)
			response.InternalError(w, "Booking action failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
