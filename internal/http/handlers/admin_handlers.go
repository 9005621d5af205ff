package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/stroman-properties/owner-dashboard/internal/domain"
	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

const (
	loginPath    = "/admin/login"
	bookingsPath = "/admin/bookings"
)

var loginTemplate = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Owner Dashboard</title></head>
<body>
<h1>Owner Dashboard</h1>
<p>Enter the access code to view booking holds.</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/admin/login">
<input type="password" name="code" autocomplete="off" autofocus>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

func (h *Handlers) renderLogin(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginTemplate.Execute(w, struct{ Error string }{Error: errMsg}); err != nil {
		logger.Error("Failed to render login page", "error", err)
	}
}

// AdminIndex routes the bare /admin path by session state.
func (h *Handlers) AdminIndex(w http.ResponseWriter, r *http.Request) {
	if h.auth.HasSession(r) {
		http.Redirect(w, r, bookingsPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// LoginPage shows the access-code form.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.auth.HasSession(r) {
		http.Redirect(w, r, bookingsPath, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, "")
}

// Login validates the submitted access code and issues the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, "Enter the access code.")
		return
	}

	code := strings.TrimSpace(r.PostFormValue("code"))
	if code == "" {
		h.renderLogin(w, http.StatusBadRequest, "Enter the access code.")
		return
	}

	ok, err := h.auth.VerifyCode(code)
	if errors.Is(err, auth.ErrNotConfigured) {
		logger.ErrorContext(r.Context(), "Owner dashboard secret is not configured")
		h.renderLogin(w, http.StatusInternalServerError, "The dashboard is not configured.")
		return
	}
	if !ok {
		h.renderLogin(w, http.StatusUnauthorized, "Invalid access code.")
		return
	}

	cookie, err := h.auth.SessionCookieFor()
	if err != nil {
		h.renderLogin(w, http.StatusInternalServerError, "The dashboard is not configured.")
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, bookingsPath, http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.auth.ClearCookie())
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

type bookingRow struct {
	domain.AdminBooking
	domain.RowPolicy
}

type bookingsPage struct {
	Status   domain.ListStatus  `json:"status"`
	Bookings []bookingRow       `json:"bookings"`
	Toolbar  domain.ToolbarMeta `json:"toolbar"`
	Error    string             `json:"error,omitempty"`
}

// Bookings serves the dashboard view for one status tab. A failed booking
// read degrades to an empty list with a page-level error; the toolbar is
// advisory and never fails the page.
func (h *Handlers) Bookings(w http.ResponseWriter, r *http.Request) {
	if !h.auth.HasSession(r) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	status := domain.ListPending
	if param := r.URL.Query().Get("status"); param != "" {
		if parsed, ok := domain.ParseListStatus(param); ok {
			status = parsed
		}
	}

	page := bookingsPage{Status: status, Bookings: []bookingRow{}}

	bookings, err := h.views.ListBookings(r.Context(), status)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load bookings", "status", status, "error", err)
		page.Error = "Unable to load bookings."
	} else {
		now := time.Now()
		page.Bookings = make([]bookingRow, 0, len(bookings))
		for _, booking := range bookings {
			page.Bookings = append(page.Bookings, bookingRow{
				AdminBooking: booking,
				RowPolicy:    domain.PolicyFor(status, booking, now),
			})
		}
	}

	page.Toolbar = h.views.FetchToolbarMeta(r.Context())

	writeJSON(w, http.StatusOK, page)
}
