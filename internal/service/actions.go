package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

// ErrMissingInvoice rejects an action before any network call is made.
var ErrMissingInvoice = errors.New("missing invoice number")

// UpstreamError reports a non-success response from the booking API.
type UpstreamError struct {
	Path    string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request to %s failed (%d)", e.Path, e.Status)
}

// Booking API endpoints, one per state transition.
const (
	verifyPath = "/api/admin/bookings/verify"
	expirePath = "/api/admin/bookings/expire"
	cancelPath = "/api/admin/bookings/cancel"
)

// ActionDispatcher forwards operator state transitions to the external
// booking API, authenticated with the shared secret. It owns no booking
// state; after a successful call it only invalidates the cached view.
type ActionDispatcher struct {
	baseURL     string
	auth        *auth.Authenticator
	httpClient  *http.Client
	invalidator Invalidator
}

func NewActionDispatcher(baseURL string, authenticator *auth.Authenticator, invalidator Invalidator) *ActionDispatcher {
	return &ActionDispatcher{
		baseURL:     strings.TrimRight(baseURL, "/"),
		auth:        authenticator,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		invalidator: invalidator,
	}
}

func (d *ActionDispatcher) Confirm(ctx context.Context, invoiceNumber string) error {
	return d.perform(ctx, verifyPath, invoiceNumber)
}

func (d *ActionDispatcher) Expire(ctx context.Context, invoiceNumber string) error {
	return d.perform(ctx, expirePath, invoiceNumber)
}

func (d *ActionDispatcher) Cancel(ctx context.Context, invoiceNumber string) error {
	return d.perform(ctx, cancelPath, invoiceNumber)
}

func (d *ActionDispatcher) perform(ctx context.Context, path, invoiceNumber string) error {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return ErrMissingInvoice
	}

	secret, err := d.auth.Secret()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"invoice_number": invoiceNumber})
	if err != nil {
		return fmt.Errorf("encode action payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.SecretHeader, secret)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Path: path, Message: fmt.Sprintf("request to %s failed: %v", path, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{
			Path:    path,
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}

	// Invalidate only once the new state exists upstream.
	d.invalidator.Invalidate(ctx)
	logger.InfoContext(ctx, "Booking action dispatched", "path", path, "invoice_number", invoiceNumber)
	return nil
}
