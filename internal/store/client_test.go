package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStoreServer(t *testing.T, body string, capture *http.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = *r
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func TestNewClient_RequiresConfiguration(t *testing.T) {
	if _, err := NewClient("", "key"); err == nil {
		t.Fatal("Missing base URL must be rejected")
	}
	if _, err := NewClient("https://store.example.com", ""); err == nil {
		t.Fatal("Missing service key must be rejected")
	}
}

func TestClient_SendsServiceCredentials(t *testing.T) {
	var got http.Request
	srv := newStoreServer(t, `[]`, &got)
	defer srv.Close()

	c, err := NewClient(srv.URL, "service-role-key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := c.BookingsByStatus(context.Background(), "pending_hold"); err != nil {
		t.Fatalf("BookingsByStatus failed: %v", err)
	}

	if got.Header.Get("apikey") != "service-role-key" {
		t.Fatalf("apikey header = %q", got.Header.Get("apikey"))
	}
	if got.Header.Get("Authorization") != "Bearer service-role-key" {
		t.Fatalf("Authorization header = %q", got.Header.Get("Authorization"))
	}
}

func TestClient_BookingsByStatusQuery(t *testing.T) {
	var got http.Request
	srv := newStoreServer(t, `[{"id":"b1","invoice_number":"INV-1","status":"pending_hold"}]`, &got)
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	records, err := c.BookingsByStatus(context.Background(), "pending_hold")
	if err != nil {
		t.Fatalf("BookingsByStatus failed: %v", err)
	}
	if len(records) != 1 || records[0].InvoiceNumber != "INV-1" {
		t.Fatalf("Unexpected records: %+v", records)
	}

	if got.URL.Path != "/rest/v1/bookings" {
		t.Fatalf("Path = %q, want /rest/v1/bookings", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("status") != "eq.pending_hold" {
		t.Fatalf("status filter = %q, want eq.pending_hold", q.Get("status"))
	}
	if q.Get("order") != "created_at.desc" {
		t.Fatalf("order = %q, want created_at.desc", q.Get("order"))
	}
	if !strings.HasPrefix(q.Get("select"), "id,invoice_number,status") {
		t.Fatalf("select = %q", q.Get("select"))
	}
}

func TestClient_GuestsByIDQuery(t *testing.T) {
	var got http.Request
	srv := newStoreServer(t, `[]`, &got)
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	if _, err := c.GuestsByID(context.Background(), []string{"g1", "g2"}); err != nil {
		t.Fatalf("GuestsByID failed: %v", err)
	}

	if got.URL.Path != "/rest/v1/guests" {
		t.Fatalf("Path = %q, want /rest/v1/guests", got.URL.Path)
	}
	if filter := got.URL.Query().Get("id"); filter != "in.(g1,g2)" {
		t.Fatalf("id filter = %q, want in.(g1,g2)", filter)
	}
}

func TestClient_GuestsByID_EmptyBatchSkipsRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	records, err := c.GuestsByID(context.Background(), nil)
	if err != nil || records != nil {
		t.Fatalf("GuestsByID(nil) = %v, %v", records, err)
	}
	if _, err := c.PaymentsByBookingID(context.Background(), nil); err != nil {
		t.Fatalf("PaymentsByBookingID(nil) failed: %v", err)
	}
	if requests != 0 {
		t.Fatalf("Empty batches issued %d requests, want 0", requests)
	}
}

func TestClient_LatestAuditEventQuery(t *testing.T) {
	var got http.Request
	srv := newStoreServer(t, `[{"created_at":"2024-01-01T00:00:00Z","actor":"cron/expire-holds"}]`, &got)
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	event, err := c.LatestAuditEvent(context.Background(), "cron/expire-holds")
	if err != nil {
		t.Fatalf("LatestAuditEvent failed: %v", err)
	}
	if event == nil || event.Actor == nil || *event.Actor != "cron/expire-holds" {
		t.Fatalf("Unexpected event: %+v", event)
	}

	q := got.URL.Query()
	if q.Get("actor") != "eq.cron/expire-holds" {
		t.Fatalf("actor filter = %q", q.Get("actor"))
	}
	if q.Get("limit") != "1" {
		t.Fatalf("limit = %q, want 1", q.Get("limit"))
	}
}

func TestClient_LatestAuditEvent_NoRows(t *testing.T) {
	var got http.Request
	srv := newStoreServer(t, `[]`, &got)
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	event, err := c.LatestAuditEvent(context.Background(), "cron/expire-holds")
	if err != nil {
		t.Fatalf("LatestAuditEvent failed: %v", err)
	}
	if event != nil {
		t.Fatalf("Expected nil event, got %+v", event)
	}
}

func TestClient_SurfacesStoreFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "key")
	_, err := c.BookingsByStatus(context.Background(), "pending_hold")
	if err == nil {
		t.Fatal("Expected store failure to propagate")
	}
	if !strings.Contains(err.Error(), "failed (403)") || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("Error %q missing status and body", err.Error())
	}
}
