package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Defaults for the admin API namespace.
const (
	DefaultMaxRequests = 30
	DefaultWindow      = time.Minute
)

// Bucket is one client's counter within the current fixed window.
type Bucket struct {
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store holds buckets keyed by client. The in-memory implementation is
// the single-instance default; swap in the Redis store when more than
// one instance serves admin traffic.
type Store interface {
	Get(ctx context.Context, key string) (Bucket, bool, error)
	Set(ctx context.Context, key string, bucket Bucket) error
}

// Limiter implements a fixed-window counter over an injectable store.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Allow records a request from key at time now and reports whether it is
// within the window budget. Store failures fail open: the request is
// allowed and the error returned for logging. Once a bucket is over
// budget, further rejections do not keep incrementing it.
func (l *Limiter) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	bucket, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return true, err
	}

	if !ok || bucket.ExpiresAt.Before(now) {
		err := l.store.Set(ctx, key, Bucket{Count: 1, ExpiresAt: now.Add(l.window)})
		return true, err
	}

	if bucket.Count >= l.max {
		return false, nil
	}

	bucket.Count++
	err = l.store.Set(ctx, key, bucket)
	return true, err
}

// ClientKey derives the rate-limit key for a request: first hop of
// X-Forwarded-For, then X-Real-IP, then the connection address.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx != -1 {
			first = xff[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != "" {
		return host
	}
	return "unknown"
}
