package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_RejectsOverBudget(t *testing.T) {
	limiter := New(NewMemoryStore(), 30, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 30; i++ {
		allowed, err := limiter.Allow(context.Background(), "10.0.0.1", now.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Fatalf("Request %d within budget was rejected", i+1)
		}
	}

	allowed, _ := limiter.Allow(context.Background(), "10.0.0.1", now.Add(31*time.Second))
	if allowed {
		t.Fatal("31st request within the window must be rejected")
	}

	// Repeated rejections stay rejected
	allowed, _ = limiter.Allow(context.Background(), "10.0.0.1", now.Add(32*time.Second))
	if allowed {
		t.Fatal("Subsequent request within the window must stay rejected")
	}
}

func TestLimiter_WindowRollover(t *testing.T) {
	store := NewMemoryStore()
	limiter := New(store, 30, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 31; i++ {
		limiter.Allow(context.Background(), "10.0.0.1", now)
	}

	// Past the window the bucket resets to count=1
	later := now.Add(time.Minute + time.Second)
	allowed, err := limiter.Allow(context.Background(), "10.0.0.1", later)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !allowed {
		t.Fatal("First request after window rollover must be accepted")
	}

	bucket, ok, _ := store.Get(context.Background(), "10.0.0.1")
	if !ok || bucket.Count != 1 {
		t.Fatalf("Expected bucket reset to count=1, got %+v ok=%v", bucket, ok)
	}
	if !bucket.ExpiresAt.Equal(later.Add(time.Minute)) {
		t.Fatalf("Expected new expiry %v, got %v", later.Add(time.Minute), bucket.ExpiresAt)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := New(NewMemoryStore(), 5, time.Minute)
	now := time.Now()

	for i := 0; i < 6; i++ {
		limiter.Allow(context.Background(), "a", now)
	}

	allowed, _ := limiter.Allow(context.Background(), "b", now)
	if !allowed {
		t.Fatal("Key b must not be affected by key a's bucket")
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (Bucket, bool, error) {
	return Bucket{}, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, Bucket) error {
	return errors.New("store down")
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	limiter := New(failingStore{}, 1, time.Minute)

	allowed, err := limiter.Allow(context.Background(), "a", time.Now())
	if !allowed {
		t.Fatal("Store failure must not reject the request")
	}
	if err == nil {
		t.Fatal("Store failure should be reported for logging")
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded chain", "203.0.113.7, 10.0.0.1", "198.51.100.2", "192.0.2.1:1234", "203.0.113.7"},
		{"forwarded single", "203.0.113.7", "", "192.0.2.1:1234", "203.0.113.7"},
		{"real ip", "", "198.51.100.2", "192.0.2.1:1234", "198.51.100.2"},
		{"remote addr", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
		{"nothing", "", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/admin/bookings/verify", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := ClientKey(r); got != tt.want {
				t.Fatalf("ClientKey = %q, want %q", got, tt.want)
			}
		})
	}
}
