package response

import "sync"

// Session caches successful parses by pass name for a single extraction run.
// It is created per pipeline invocation and must not be shared between runs.
type Session struct {
	mu     sync.RWMutex
	parsed map[string]map[string]any
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{parsed: make(map[string]map[string]any)}
}

// Store remembers the parsed payload of a pass. Nil sessions ignore the call.
func (s *Session) Store(pass string, data map[string]any) {
	if s == nil || data == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parsed == nil {
		s.parsed = make(map[string]map[string]any)
	}
	s.parsed[pass] = data
}

// Lookup returns a previously stored payload.
func (s *Session) Lookup(pass string) (map[string]any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.parsed[pass]
	return data, ok
}

// Len reports how many passes are cached.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.parsed)
}
