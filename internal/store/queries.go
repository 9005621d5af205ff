package store

import (
	"context"
	"fmt"
	"strings"
)

const (
	bookingColumns = "id,invoice_number,status,hold_expires_at,check_in,check_out,guest_id,payment_method,created_at,paid_at,expired_at,canceled_at"
	guestColumns   = "id,full_name,email,phone"
	paymentColumns = "id,booking_id,status,processor,payer_name,reference,note,proof_file_url,received_at,verified_at,amount,created_at"
	auditColumns   = "created_at,actor"

	orderCreatedDesc = "created_at.desc"
)

func eq(value string) string {
	return "eq." + value
}

func in(values []string) string {
	return "in.(" + strings.Join(values, ",") + ")"
}

type bookingListParams struct {
	Status string `url:"status"`
	Select string `url:"select"`
	Order  string `url:"order"`
}

// BookingsByStatus lists bookings carrying the given store status label,
// newest first.
func (c *Client) BookingsByStatus(ctx context.Context, status string) ([]BookingRecord, error) {
	var records []BookingRecord
	err := c.GetJSON(ctx, "/bookings", bookingListParams{
		Status: eq(status),
		Select: bookingColumns,
		Order:  orderCreatedDesc,
	}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

type guestListParams struct {
	ID     string `url:"id"`
	Select string `url:"select"`
}

// GuestsByID resolves a batch of guest identities in one request.
func (c *Client) GuestsByID(ctx context.Context, ids []string) ([]GuestRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []GuestRecord
	err := c.GetJSON(ctx, "/guests", guestListParams{
		ID:     in(ids),
		Select: guestColumns,
	}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

type paymentListParams struct {
	BookingID string `url:"booking_id"`
	Select    string `url:"select"`
	Order     string `url:"order"`
}

// PaymentsByBookingID resolves payments for a batch of bookings, newest
// first so callers can keep the most recent per booking.
func (c *Client) PaymentsByBookingID(ctx context.Context, ids []string) ([]PaymentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []PaymentRecord
	err := c.GetJSON(ctx, "/payments", paymentListParams{
		BookingID: in(ids),
		Select:    paymentColumns,
		Order:     orderCreatedDesc,
	}, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

type auditListParams struct {
	Actor  string `url:"actor"`
	Select string `url:"select"`
	Order  string `url:"order"`
	Limit  int    `url:"limit"`
}

// LatestAuditEvent returns the most recent audit event recorded by the
// named actor, or nil when the actor has no events.
func (c *Client) LatestAuditEvent(ctx context.Context, actor string) (*AuditEventRecord, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, fmt.Errorf("audit actor is required")
	}
	var records []AuditEventRecord
	err := c.GetJSON(ctx, "/booking_audit_events", auditListParams{
		Actor:  eq(actor),
		Select: auditColumns,
		Order:  orderCreatedDesc,
		Limit:  1,
	}, &records)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
