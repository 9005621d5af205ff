package store

// Row shapes as returned by the booking store. Nullable columns map to
// pointers; timestamps and dates stay in their wire form.

type BookingRecord struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Status        string  `json:"status"`
	HoldExpiresAt *string `json:"hold_expires_at"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	GuestID       *string `json:"guest_id"`
	PaymentMethod *string `json:"payment_method"`
	CreatedAt     *string `json:"created_at"`
	PaidAt        *string `json:"paid_at"`
	ExpiredAt     *string `json:"expired_at"`
	CanceledAt    *string `json:"canceled_at"`
}

type GuestRecord struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

type PaymentRecord struct {
	ID           string   `json:"id"`
	BookingID    string   `json:"booking_id"`
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

type AuditEventRecord struct {
	CreatedAt *string `json:"created_at"`
	Actor     *string `json:"actor"`
}
