package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store. It is the development and
// test backend; nothing survives a restart.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	buckets map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:  make(map[string][]byte),
		buckets: make(map[string][]time.Time),
	}
}

// Get unmarshals the value under key into dest.
func (s *MemoryStore) Get(_ context.Context, key string, dest any) error {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal value for %q: %w", key, err)
	}
	return nil
}

// Put stores the marshaled value under key.
func (s *MemoryStore) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the value under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Allow performs the sliding-window check-and-insert under the store mutex,
// making it atomic per key (and, here, across keys).
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := s.buckets[key][:0:0]
	for _, ts := range s.buckets[key] {
		if ts.After(cutoff) {
			fresh = append(fresh, ts)
		}
	}

	if len(fresh) >= limit {
		s.buckets[key] = fresh
		return false, nil
	}

	s.buckets[key] = append(fresh, now)
	return true, nil
}

// Healthy always succeeds for the in-memory backend.
func (s *MemoryStore) Healthy(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
