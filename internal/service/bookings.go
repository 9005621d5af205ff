package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stroman-properties/owner-dashboard/internal/domain"
	"github.com/stroman-properties/owner-dashboard/internal/stay"
	"github.com/stroman-properties/owner-dashboard/internal/store"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

// SweepActor is the audit-trail identity of the external job that expires
// stale holds; the dashboard only ever reads its footprints.
const SweepActor = "cron/expire-holds"

// SweepInterval is how often that job runs, used to extrapolate the next
// run from the last observed one.
const SweepInterval = 20 * time.Minute

// BookingStore is the read surface of the remote booking store.
type BookingStore interface {
	BookingsByStatus(ctx context.Context, status string) ([]store.BookingRecord, error)
	GuestsByID(ctx context.Context, ids []string) ([]store.GuestRecord, error)
	PaymentsByBookingID(ctx context.Context, ids []string) ([]store.PaymentRecord, error)
	LatestAuditEvent(ctx context.Context, actor string) (*store.AuditEventRecord, error)
}

// ViewService assembles the denormalized booking view for the dashboard.
type ViewService struct {
	store BookingStore
	stays stay.Calculator
	cache *ViewCache
}

func NewViewService(bookingStore BookingStore, stays stay.Calculator, cache *ViewCache) *ViewService {
	return &ViewService{store: bookingStore, stays: stays, cache: cache}
}

// ListBookings returns the denormalized rows for one listing tab: the
// bookings carrying the mapped store status, each joined with its guest
// and its most recent payment.
func (s *ViewService) ListBookings(ctx context.Context, status domain.ListStatus) ([]domain.AdminBooking, error) {
	storeStatus := status.StoreStatus()
	if storeStatus == "" {
		return nil, fmt.Errorf("unknown listing status %q", status)
	}

	if cached, ok := s.cache.Get(status); ok {
		return cached, nil
	}

	bookings, err := s.store.BookingsByStatus(ctx, storeStatus)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []domain.AdminBooking{}, nil
	}

	guestIDs := distinctGuestIDs(bookings)
	bookingIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}

	// The two follow-up lookups are independent reads.
	var (
		guests   []store.GuestRecord
		payments []store.PaymentRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		guests, err = s.store.GuestsByID(gctx, guestIDs)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.store.PaymentsByBookingID(gctx, bookingIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	guestByID := make(map[string]domain.AdminGuest, len(guests))
	for _, g := range guests {
		guestByID[g.ID] = domain.AdminGuest{
			ID:       g.ID,
			FullName: g.FullName,
			Email:    g.Email,
			Phone:    g.Phone,
		}
	}

	// Payments arrive newest-first; first write per booking wins.
	paymentByBooking := make(map[string]domain.AdminPayment, len(bookings))
	for _, p := range payments {
		if _, seen := paymentByBooking[p.BookingID]; seen {
			continue
		}
		paymentByBooking[p.BookingID] = domain.AdminPayment{
			ID:           p.ID,
			Status:       p.Status,
			Processor:    p.Processor,
			PayerName:    p.PayerName,
			Reference:    p.Reference,
			Note:         p.Note,
			ProofFileURL: p.ProofFileURL,
			ReceivedAt:   p.ReceivedAt,
			VerifiedAt:   p.VerifiedAt,
			Amount:       p.Amount,
			CreatedAt:    p.CreatedAt,
		}
	}

	view := make([]domain.AdminBooking, 0, len(bookings))
	for _, b := range bookings {
		row := domain.AdminBooking{
			ID:            b.ID,
			InvoiceNumber: b.InvoiceNumber,
			Status:        domain.ParseBookingStatus(b.Status),
			HoldExpiresAt: b.HoldExpiresAt,
			CheckIn:       b.CheckIn,
			CheckOut:      b.CheckOut,
			PaymentMethod: b.PaymentMethod,
			CreatedAt:     b.CreatedAt,
			PaidAt:        b.PaidAt,
			ExpiredAt:     b.ExpiredAt,
			CanceledAt:    b.CanceledAt,
		}

		if b.CheckIn != nil && b.CheckOut != nil {
			if details, err := s.stays.Stay(*b.CheckIn, *b.CheckOut); err == nil {
				nights := details.Nights
				row.Nights = &nights
			}
		}

		if b.GuestID != nil {
			if guest, ok := guestByID[*b.GuestID]; ok {
				row.Guest = &guest
			}
		}
		if payment, ok := paymentByBooking[b.ID]; ok {
			row.Payment = &payment
		}

		view = append(view, row)
	}

	s.cache.Put(status, view)
	return view, nil
}

// FetchToolbarMeta reads the sweep job's last audit entry and extrapolates
// its next run. The lookup is advisory: failures are logged and reported
// as unavailable, never propagated.
func (s *ViewService) FetchToolbarMeta(ctx context.Context) domain.ToolbarMeta {
	event, err := s.store.LatestAuditEvent(ctx, SweepActor)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load toolbar metadata", "error", err)
		return domain.ToolbarMeta{}
	}

	meta := domain.ToolbarMeta{Available: true}
	if event == nil || event.CreatedAt == nil {
		return meta
	}

	lastSweep, err := time.Parse(time.RFC3339, *event.CreatedAt)
	if err != nil {
		return meta
	}
	nextSweep := lastSweep.Add(SweepInterval)
	meta.LastSweepAt = &lastSweep
	meta.NextSweepEta = &nextSweep
	return meta
}

func distinctGuestIDs(bookings []store.BookingRecord) []string {
	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if b.GuestID == nil || *b.GuestID == "" {
			continue
		}
		if _, ok := seen[*b.GuestID]; ok {
			continue
		}
		seen[*b.GuestID] = struct{}{}
		ids = append(ids, *b.GuestID)
	}
	return ids
}
