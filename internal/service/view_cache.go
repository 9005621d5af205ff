package service

import (
	"context"
	"sync"
	"time"

	"github.com/stroman-properties/owner-dashboard/internal/domain"
	"github.com/stroman-properties/owner-dashboard/pkg/events"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
)

// ViewCache holds the assembled booking view per listing tab for a short
// TTL. It exists so an admin action can force the next read to see the
// new state; it is not a load shield.
type ViewCache struct {
	mu      sync.RWMutex
	entries map[domain.ListStatus]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	bookings []domain.AdminBooking
	storedAt time.Time
}

func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		entries: make(map[domain.ListStatus]cacheEntry),
		ttl:     ttl,
	}
}

func (c *ViewCache) Get(status domain.ListStatus) ([]domain.AdminBooking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[status]
	if !ok || time.Since(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.bookings, true
}

func (c *ViewCache) Put(status domain.ListStatus, bookings []domain.AdminBooking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[status] = cacheEntry{bookings: bookings, storedAt: time.Now()}
}

// Flush drops every tab; booking state transitions can move rows between
// tabs, so per-tab invalidation would be wrong.
func (c *ViewCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.ListStatus]cacheEntry)
}

// Invalidator signals that cached booking views are stale.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// CacheInvalidator flushes the local cache and, when a bus is configured,
// broadcasts so other instances flush theirs too.
type CacheInvalidator struct {
	cache *ViewCache
	bus   events.Publisher
}

func NewCacheInvalidator(cache *ViewCache, bus events.Publisher) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, bus: bus}
}

func (i *CacheInvalidator) Invalidate(ctx context.Context) {
	i.cache.Flush()
	if i.bus == nil {
		return
	}
	if err := i.bus.Publish(ctx, events.BookingsInvalidated, struct{}{}); err != nil {
		logger.WarnContext(ctx, "Failed to broadcast cache invalidation", "error", err)
	}
}

// SubscribeInvalidation flushes the cache whenever another instance
// broadcasts an invalidation.
func SubscribeInvalidation(bus events.Subscriber, cache *ViewCache) error {
	return bus.Subscribe(events.BookingsInvalidated, func(*events.Message) {
		cache.Flush()
	})
}
