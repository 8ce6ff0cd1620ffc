package pocketbase

import (
	"encoding/json"
	"sync"
)

// authStore holds the process-wide session token behind a single-writer lock.
// Concurrent tool calls may race a re-authentication; the store guarantees a
// torn-free token/record pair and last-writer-wins ordering, nothing more.
type authStore struct {
	mu     sync.RWMutex
	token  string
	record json.RawMessage
}

func (s *authStore) Set(token string, record json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.record = record
}

func (s *authStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.record = nil
}

func (s *authStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *authStore) Record() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}
