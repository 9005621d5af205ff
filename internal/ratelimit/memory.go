package ratelimit

import (
	"context"
	"sync"
)

// MemoryStore keeps buckets in a process-local map. Stale buckets are
// overwritten on window rollover and never deleted, which is acceptable
// for the lifetime of a single dashboard process.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.buckets[key]
	return bucket, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, bucket Bucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = bucket
	return nil
}
