// Package session keeps per-conversation pending state between tool
// calls, keyed by the caller-supplied session identifier.
package session

import (
	"sync"
	"time"
)

// DefaultKey is used when the caller supplies no session identifier, so a
// single-conversation client still gets disambiguation follow-ups.
const DefaultKey = "default"

type record[T any] struct {
	value   T
	expires time.Time
}

// Store holds pending state per session with a TTL so abandoned
// disambiguations do not accumulate.
type Store[T any] struct {
	mu      sync.Mutex
	records map[string]record[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a session store whose entries live for ttl.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		records: make(map[string]record[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the pending state for a session, if still live.
func (s *Store[T]) Get(sessionID string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[normalize(sessionID)]
	if !ok || s.now().After(r.expires) {
		delete(s.records, normalize(sessionID))
		var zero T
		return zero, false
	}
	return r.value, true
}

// Put stores pending state for a session, replacing any prior state.
func (s *Store[T]) Put(sessionID string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.records[normalize(sessionID)] = record[T]{value: value, expires: s.now().Add(s.ttl)}
}

// Delete clears a session's pending state.
func (s *Store[T]) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, normalize(sessionID))
}

func (s *Store[T]) sweepLocked() {
	now := s.now()
	for k, r := range s.records {
		if now.After(r.expires) {
			delete(s.records, k)
		}
	}
}

func normalize(sessionID string) string {
	if sessionID == "" {
		return DefaultKey
	}
	return sessionID
}
