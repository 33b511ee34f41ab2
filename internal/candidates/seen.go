package candidates

import (
	"sync"
	"time"
)

// seenSet remembers mints already surfaced so a candidate is evaluated at
// most once per window. Entries expire after ttl and are swept on each
// Add/Has cycle via Prune, keeping the set bounded for long-running
// processes.
type seenSet struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
}

func newSeenSet(ttl time.Duration) *seenSet {
	return &seenSet{
		entries: make(map[string]time.Time),
		ttl:     ttl,
	}
}

func (s *seenSet) Has(mint string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.entries[mint]
	if !ok {
		return false
	}
	if now.Sub(at) > s.ttl {
		delete(s.entries, mint)
		return false
	}
	return true
}

func (s *seenSet) Add(mint string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[mint] = now
}

// Prune drops every entry older than the ttl.
func (s *seenSet) Prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for mint, at := range s.entries {
		if now.Sub(at) > s.ttl {
			delete(s.entries, mint)
		}
	}
}

func (s *seenSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
}

func (s *seenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
