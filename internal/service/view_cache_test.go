package service

import (
	"context"
	"testing"
	"time"

	"github.com/stroman-properties/owner-dashboard/internal/domain"
	"github.com/stroman-properties/owner-dashboard/pkg/events"
)

type fakeBus struct {
	published []string
	handlers  map[string]func(*events.Message)
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string]func(*events.Message))}
}

func (b *fakeBus) Publish(_ context.Context, subject string, _ interface{}) error {
	b.published = append(b.published, subject)
	if handler, ok := b.handlers[subject]; ok {
		handler(&events.Message{Subject: subject})
	}
	return nil
}

func (b *fakeBus) Subscribe(subject string, handler func(*events.Message)) error {
	b.handlers[subject] = handler
	return nil
}

func (b *fakeBus) Close() error { return nil }

func TestViewCache_RoundTrip(t *testing.T) {
	cache := NewViewCache(time.Minute)

	if _, ok := cache.Get(domain.ListPending); ok {
		t.Fatal("Empty cache must miss")
	}

	rows := []domain.AdminBooking{{ID: "b1"}}
	cache.Put(domain.ListPending, rows)

	got, ok := cache.Get(domain.ListPending)
	if !ok || len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	if _, ok := cache.Get(domain.ListConfirmed); ok {
		t.Fatal("Other tabs must stay independent")
	}
}

func TestViewCache_Expires(t *testing.T) {
	cache := NewViewCache(time.Nanosecond)
	cache.Put(domain.ListPending, []domain.AdminBooking{{ID: "b1"}})

	time.Sleep(time.Millisecond)
	if _, ok := cache.Get(domain.ListPending); ok {
		t.Fatal("Expired entry must miss")
	}
}

func TestViewCache_FlushDropsEveryTab(t *testing.T) {
	cache := NewViewCache(time.Minute)
	cache.Put(domain.ListPending, []domain.AdminBooking{{ID: "b1"}})
	cache.Put(domain.ListConfirmed, []domain.AdminBooking{{ID: "b2"}})

	cache.Flush()

	if _, ok := cache.Get(domain.ListPending); ok {
		t.Fatal("Flush must drop the pending tab")
	}
	if _, ok := cache.Get(domain.ListConfirmed); ok {
		t.Fatal("Flush must drop the confirmed tab")
	}
}

func TestCacheInvalidator_FlushesAndBroadcasts(t *testing.T) {
	cache := NewViewCache(time.Minute)
	cache.Put(domain.ListPending, []domain.AdminBooking{{ID: "b1"}})

	bus := newFakeBus()
	invalidator := NewCacheInvalidator(cache, bus)
	invalidator.Invalidate(context.Background())

	if _, ok := cache.Get(domain.ListPending); ok {
		t.Fatal("Invalidate must flush the local cache")
	}
	if len(bus.published) != 1 || bus.published[0] != events.BookingsInvalidated {
		t.Fatalf("Published %v, want one %q broadcast", bus.published, events.BookingsInvalidated)
	}
}

func TestCacheInvalidator_WorksWithoutBus(t *testing.T) {
	cache := NewViewCache(time.Minute)
	cache.Put(domain.ListPending, []domain.AdminBooking{{ID: "b1"}})

	NewCacheInvalidator(cache, nil).Invalidate(context.Background())

	if _, ok := cache.Get(domain.ListPending); ok {
		t.Fatal("Invalidate must flush even without a bus")
	}
}

func TestSubscribeInvalidation_FlushesOnBroadcast(t *testing.T) {
	local := NewViewCache(time.Minute)
	remote := NewViewCache(time.Minute)
	remote.Put(domain.ListPending, []domain.AdminBooking{{ID: "b1"}})

	bus := newFakeBus()
	if err := SubscribeInvalidation(bus, remote); err != nil {
		t.Fatalf("SubscribeInvalidation failed: %v", err)
	}

	NewCacheInvalidator(local, bus).Invalidate(context.Background())

	if _, ok := remote.Get(domain.ListPending); ok {
		t.Fatal("Broadcast must flush subscribed caches")
	}
}
