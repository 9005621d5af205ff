package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// SessionCookie carries the derived session token in the browser.
	SessionCookie = "admin_session"

	// SecretHeader is the current service-to-service credential header.
	// LegacySecretHeader predates the dashboard rename and is still accepted.
	SecretHeader       = "x-owner-dashboard-secret"
	LegacySecretHeader = "x-admin-secret"

	sessionTTL = 8 * time.Hour
)

var (
	ErrNotConfigured   = errors.New("owner dashboard secret is not configured")
	ErrUnauthenticated = errors.New("unauthorized")
)

// Authenticator validates the shared owner-dashboard secret, either
// presented directly (header or bearer token) or as the session token
// derived from it. The token is a pure function of the secret, so every
// process configured with the same secret accepts the same cookie.
type Authenticator struct {
	secret     string
	production bool
}

func New(secret string, production bool) *Authenticator {
	return &Authenticator{
		secret:     strings.TrimSpace(secret),
		production: production,
	}
}

func (a *Authenticator) Secret() (string, error) {
	if a.secret == "" {
		return "", ErrNotConfigured
	}
	return a.secret, nil
}

// SessionToken derives the opaque cookie value from the secret.
func (a *Authenticator) SessionToken() (string, error) {
	secret, err := a.Secret()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

// matchesSecret compares in constant time. Unequal lengths are rejected
// before any content comparison.
func matchesSecret(provided, want string) bool {
	if provided == "" || len(provided) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(want)) == 1
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func (a *Authenticator) providedSecret(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(SecretHeader)); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get(LegacySecretHeader)); v != "" {
		return v
	}
	return bearerToken(r.Header.Get("Authorization"))
}

// HasSession reports whether the request carries a valid credential:
// the secret itself in a header, or the derived token in the session
// cookie. An unconfigured secret never authenticates anything.
func (a *Authenticator) HasSession(r *http.Request) bool {
	secret, err := a.Secret()
	if err != nil {
		return false
	}

	if matchesSecret(a.providedSecret(r), secret) {
		return true
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	token, err := a.SessionToken()
	if err != nil {
		return false
	}
	return matchesSecret(cookie.Value, token)
}

// Context identifies how a request authenticated.
type Context struct {
	Actor string
}

// RequireOwner authenticates an API request. It distinguishes the
// configuration error from a plain authentication failure so callers can
// surface them differently.
func (a *Authenticator) RequireOwner(r *http.Request) (Context, error) {
	secret, err := a.Secret()
	if err != nil {
		return Context{}, err
	}

	if matchesSecret(a.providedSecret(r), secret) {
		return Context{Actor: "admin-secret"}, nil
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		token, err := a.SessionToken()
		if err == nil && matchesSecret(cookie.Value, token) {
			return Context{Actor: "admin-session"}, nil
		}
	}

	return Context{}, ErrUnauthenticated
}

// VerifyCode checks a login-form submission against the secret.
func (a *Authenticator) VerifyCode(code string) (bool, error) {
	secret, err := a.Secret()
	if err != nil {
		return false, err
	}
	return matchesSecret(strings.TrimSpace(code), secret), nil
}

// SessionCookieFor issues the session cookie for a successful login.
func (a *Authenticator) SessionCookieFor() (*http.Cookie, error) {
	token, err := a.SessionToken()
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.production,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie expires the session cookie immediately.
func (a *Authenticator) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.production,
		SameSite: http.SameSiteLaxMode,
	}
}
