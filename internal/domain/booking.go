package domain

import "time"

// BookingStatus is the lifecycle status as stored by the booking store.
type BookingStatus string

const (
	BookingPendingHold BookingStatus = "pending_hold"
	BookingPaid        BookingStatus = "paid"
	BookingExpired     BookingStatus = "expired"
	BookingCanceled    BookingStatus = "canceled"
	BookingUnknown     BookingStatus = "unknown"
)

// ParseBookingStatus normalizes a raw store value; unrecognized values
// collapse to BookingUnknown rather than failing.
func ParseBookingStatus(s string) BookingStatus {
	switch BookingStatus(s) {
	case BookingPendingHold, BookingPaid, BookingExpired, BookingCanceled:
		return BookingStatus(s)
	default:
		return BookingUnknown
	}
}

// ListStatus is the logical status tab requested by the dashboard.
type ListStatus string

const (
	ListPending   ListStatus = "pending"
	ListConfirmed ListStatus = "confirmed"
	ListExpired   ListStatus = "expired"
)

func ParseListStatus(s string) (ListStatus, bool) {
	switch ListStatus(s) {
	case ListPending, ListConfirmed, ListExpired:
		return ListStatus(s), true
	default:
		return "", false
	}
}

// StoreStatus maps the logical tab to the store's status label. There is
// no listing tab for canceled bookings.
func (s ListStatus) StoreStatus() string {
	switch s {
	case ListPending:
		return string(BookingPendingHold)
	case ListConfirmed:
		return string(BookingPaid)
	case ListExpired:
		return string(BookingExpired)
	default:
		return ""
	}
}

type AdminGuest struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type AdminPayment struct {
	ID           string   `json:"id"`
	Status       *string  `json:"status"`
	Processor    *string  `json:"processor"`
	PayerName    *string  `json:"payer_name"`
	Reference    *string  `json:"reference"`
	Note         *string  `json:"note"`
	ProofFileURL *string  `json:"proof_file_url"`
	ReceivedAt   *string  `json:"received_at"`
	VerifiedAt   *string  `json:"verified_at"`
	Amount       *float64 `json:"amount"`
	CreatedAt    *string  `json:"created_at"`
}

// AdminBooking is the denormalized row served to the dashboard. Timestamps
// stay in the store's wire form; formatting is a presentation concern.
type AdminBooking struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        BookingStatus `json:"status"`
	HoldExpiresAt *string       `json:"hold_expires_at"`
	CheckIn       *string       `json:"check_in"`
	CheckOut      *string       `json:"check_out"`
	PaymentMethod *string       `json:"payment_method"`
	CreatedAt     *string       `json:"created_at"`
	PaidAt        *string       `json:"paid_at"`
	ExpiredAt     *string       `json:"expired_at"`
	CanceledAt    *string       `json:"canceled_at"`
	Nights        *int          `json:"nights"`
	Guest         *AdminGuest   `json:"guest"`
	Payment       *AdminPayment `json:"payment"`
}

// HoldExpired reports whether the hold deadline has already passed. A
// missing or unparseable deadline counts as not expired.
func (b AdminBooking) HoldExpired(now time.Time) bool {
	if b.HoldExpiresAt == nil {
		return false
	}
	deadline, err := time.Parse(time.RFC3339, *b.HoldExpiresAt)
	if err != nil {
		return false
	}
	return !deadline.After(now)
}

// RowPolicy says which admin actions are disabled for a row.
type RowPolicy struct {
	DisableConfirm bool `json:"disable_confirm"`
	DisableExpire  bool `json:"disable_expire"`
	DisableCancel  bool `json:"disable_cancel"`
}

// PolicyFor computes the action gating for a row on a given listing tab:
// confirm and expire only make sense for a live pending hold, cancel for
// anything not already expired.
func PolicyFor(tab ListStatus, b AdminBooking, now time.Time) RowPolicy {
	actionable := tab == ListPending && !b.HoldExpired(now)
	return RowPolicy{
		DisableConfirm: !actionable,
		DisableExpire:  !actionable,
		DisableCancel:  tab == ListExpired,
	}
}

// ToolbarMeta describes the external expiration sweep. Available is false
// when the advisory lookup itself failed, which is distinct from a store
// that simply has no sweep events yet.
type ToolbarMeta struct {
	LastSweepAt  *time.Time `json:"last_sweep_at"`
	NextSweepEta *time.Time `json:"next_sweep_eta"`
	Available    bool       `json:"available"`
}
