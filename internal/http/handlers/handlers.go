package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stroman-properties/owner-dashboard/internal/domain"
	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/internal/platform/mailer"
	"github.com/stroman-properties/owner-dashboard/internal/platform/storage"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

// BookingViews is the read side consumed by the dashboard pages.
type BookingViews interface {
	ListBookings(ctx context.Context, status domain.ListStatus) ([]domain.AdminBooking, error)
	FetchToolbarMeta(ctx context.Context) domain.ToolbarMeta
}

// BookingActions is the write side: transitions delegated to the booking API.
type BookingActions interface {
	Confirm(ctx context.Context, invoiceNumber string) error
	Expire(ctx context.Context, invoiceNumber string) error
	Cancel(ctx context.Context, invoiceNumber string) error
}

type Handlers struct {
	auth    *auth.Authenticator
	views   BookingViews
	actions BookingActions
	mail    mailer.Service
	uploads storage.Uploader
}

func New(authenticator *auth.Authenticator, views BookingViews, actions BookingActions, mail mailer.Service, uploads storage.Uploader) *Handlers {
	return &Handlers{
		auth:    authenticator,
		views:   views,
		actions: actions,
		mail:    mail,
		uploads: uploads,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
