package organize

import (
	"sync"
	"time"
)

// suppressor records paths whose next filesystem notification is the
// echo of an action this process just performed (a move or rename).
// Entries are single-use (consumed on first check) and additionally
// expire after a TTL, so a notification that never arrives cannot
// leak an entry that would swallow a future legitimate event.
type suppressor struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time // path -> expiry
}

func newSuppressor(ttl time.Duration) *suppressor {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &suppressor{ttl: ttl, entries: make(map[string]time.Time)}
}

// Add registers a path to be ignored on its next notification.
func (s *suppressor) Add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for p, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, p)
		}
	}
	s.entries[path] = now.Add(s.ttl)
}

// Consume reports whether path is suppressed and removes the entry
// either way, so at most one notification per registration is skipped.
func (s *suppressor) Consume(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[path]
	if !ok {
		return false
	}
	delete(s.entries, path)
	return time.Now().Before(exp)
}
