// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store holds encoded query results with a per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Len() int
	Close() error
}

const defaultSize = 1024

type memEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is a bounded in-process Store. Least recently used entries are
// evicted when full; stale entries are dropped on read.
type MemoryStore struct {
	lru *lru.Cache[string, memEntry]
	now func() time.Time
	mu  sync.Mutex
}

// NewMemoryStore returns a MemoryStore holding at most size entries
// (default 1024 when size <= 0).
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.New[string, memEntry](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &MemoryStore{lru: c, now: time.Now}
}

// Get returns the stored value if present and not yet expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expires) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores value until ttl elapses.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Add(key, memEntry{data: value, expires: s.now().Add(ttl)})
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// Len returns the number of entries, stale ones included.
func (s *MemoryStore) Len() int { return s.lru.Len() }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
