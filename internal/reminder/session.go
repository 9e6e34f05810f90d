package reminder

import (
	"sort"
	"sync"
)

// Session is the set of dates that had a reminder fire during this run.
// It lives only in memory.
type Session struct {
	mu    sync.Mutex
	dates map[string]struct{}
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{dates: make(map[string]struct{})}
}

// Mark records that a reminder fired on date.
func (s *Session) Mark(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates[date] = struct{}{}
}

// Completed reports whether a reminder fired on date during this run.
func (s *Session) Completed(date string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dates[date]
	return ok
}

// Dates returns the completed dates in ascending order.
func (s *Session) Dates() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
