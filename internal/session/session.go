package session

import (
	"sync"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// Identity is the authenticated caller's token and user record.
type Identity struct {
	Token string
	User  *domain.User
}

// Authenticated reports whether both token and user are present.
func (i Identity) Authenticated() bool {
	return i.Token != "" && i.User != nil
}

// Store holds the current session identity. Set and Clear are single atomic
// transitions: a reader can never observe a token without its user or the
// other way around.
type Store struct {
	mu       sync.RWMutex
	identity Identity
}

// NewStore returns an empty, unauthenticated session store.
func NewStore() *Store {
	return &Store{}
}

// Set installs token and user together.
func (s *Store) Set(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{Token: token, User: user}
}

// Clear drops the session, used on logout and on credential rejection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = Identity{}
}

// Current returns a snapshot of the session identity.
func (s *Store) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}
