// Package session persists the dashboard's bearer token between runs.
package session

import (
	"context"
	"sync"
	"time"
)

// TokenName is the fixed key the bearer token is stored under.
const TokenName = "access_token"

// Reason records why a session started or ended.
type Reason string

const (
	ReasonLogin   Reason = "login"
	ReasonLogout  Reason = "logout"
	ReasonExpired Reason = "expired"
)

// Store holds at most one bearer token. Token returns "" with a nil error
// when no session exists.
type Store interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context, reason Reason) error
}

// MemoryStore is an in-process Store used by tests and API-key runs.
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	savedAt time.Time
	clears  int
	reason  Reason
}

func NewMemoryStore(token string) *MemoryStore {
	s := &MemoryStore{token: token}
	if token != "" {
		s.savedAt = time.Now().UTC()
	}
	return s
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.savedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, reason Reason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.clears++
	s.reason = reason
	return nil
}

// Clears reports how many times Clear has been called.
func (s *MemoryStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// LastClearReason is the reason passed to the latest Clear.
func (s *MemoryStore) LastClearReason() Reason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}
