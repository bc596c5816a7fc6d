package session

import (
	"sync"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

// Session is the state one browser holds: a bearer credential and the identity it resolved to.
// It satisfies repository.CredentialSource, so it can be put on a request context directly.
type Session struct {
	id string

	mu         sync.RWMutex
	credential string
	identity   *domain.Identity
	lastSeen   time.Time

	bootMu sync.Mutex
	booted bool
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, lastSeen: now}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Identity returns a copy of the cached identity, or nil when nobody is logged in.
func (s *Session) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *Session) set(credential string, identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.identity = identity
}

func (s *Session) setIdentity(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

func (s *Session) clear() {
	s.set("", nil)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

var _ domain.Principal = (*Session)(nil)
