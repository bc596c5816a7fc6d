package session

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionUseCase interface {
	Open(ctx context.Context, id string) *Session
	Login(ctx context.Context, s *Session, creds domain.Credentials) (*Session, error)
	Register(ctx context.Context, s *Session, form domain.RegistrationForm) (*Session, error)
	Logout(ctx context.Context, s *Session)
	UpdateProfile(ctx context.Context, s *Session, profile domain.Profile) (*domain.Identity, error)
}

// CredentialStore persists the bearer credential per session so it survives a process restart.
type CredentialStore interface {
	LoadCredential(ctx context.Context, sessionID, key string) (string, error)
	SaveCredential(ctx context.Context, sessionID, key, value string, ttl time.Duration) error
	DeleteCredential(ctx context.Context, sessionID, key string) error
}

type SessionService struct {
	auth          repository.AuthRepository
	store         CredentialStore
	credentialKey string
	credentialTTL time.Duration
	idleTTL       time.Duration
	log           *zap.Logger
	now           func() time.Time
	onEvict       []func(sessionID string)
	onRotate      []func(oldID, newID string)

	mu       sync.Mutex
	sessions map[string]*Session
}

type SessionServiceOption func(*SessionService)

// OnEvict registers fn to run for every session the janitor drops, so per-session state kept
// elsewhere can go with it.
func OnEvict(fn func(sessionID string)) SessionServiceOption {
	return func(s *SessionService) {
		s.onEvict = append(s.onEvict, fn)
	}
}

// OnRotate registers fn to run when login or register moves a session to a fresh id.
func OnRotate(fn func(oldID, newID string)) SessionServiceOption {
	return func(s *SessionService) {
		s.onRotate = append(s.onRotate, fn)
	}
}

func NewSessionService(auth repository.AuthRepository, store CredentialStore, cfg config.SessionConfig, log *zap.Logger, opts ...SessionServiceOption) *SessionService {
	service := &SessionService{
		auth:          auth,
		store:         store,
		credentialKey: cfg.CredentialKey,
		credentialTTL: time.Duration(cfg.CookieMaxAgeDay) * 24 * time.Hour,
		idleTTL:       time.Duration(cfg.IdleTTLMinutes) * time.Minute,
		log:           log.With(zap.String("component", "session")),
		now:           time.Now,
		sessions:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Open returns the session for id. The first Open of a session resolves the stored
// credential into an identity; every failure on that path degrades to an anonymous session
// instead of surfacing.
func (s *SessionService) Open(ctx context.Context, id string) *Session {
	now := s.now()
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		sess = s.adopt(ctx, id, now)
	}
	sess.touch(now)

	s.bootstrap(ctx, sess)
	return sess
}

// adopt registers a session for an id this process holds no state for. The id is kept only
// when a credential is stored under it; any other id is replaced with a fresh one. An
// unreachable store keeps the id so bootstrap can retry.
func (s *SessionService) adopt(ctx context.Context, id string, now time.Time) *Session {
	if !s.issued(ctx, id) {
		id = NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, now)
		s.sessions[id] = sess
	}
	return sess
}

func (s *SessionService) issued(ctx context.Context, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	token, err := s.store.LoadCredential(ctx, id, s.credentialKey)
	if err != nil {
		return true
	}
	return token != ""
}

func (s *SessionService) bootstrap(ctx context.Context, sess *Session) {
	sess.bootMu.Lock()
	defer sess.bootMu.Unlock()
	if sess.booted {
		return
	}

	token, err := s.store.LoadCredential(ctx, sess.id, s.credentialKey)
	if err != nil {
		s.log.Warn("load credential", zap.String("session_id", sess.id), zap.Error(err))
		sess.booted = ctx.Err() == nil
		return
	}
	if token == "" {
		sess.booted = true
		return
	}

	sess.set(token, nil)
	identity, err := s.auth.Me(repository.WithCredentialSource(ctx, sess))
	if err != nil {
		sess.clear()
		if ctx.Err() != nil {
			return
		}
		s.log.Info("stored credential rejected", zap.String("session_id", sess.id), zap.Error(err))
		if err := s.store.DeleteCredential(ctx, sess.id, s.credentialKey); err != nil {
			s.log.Warn("delete credential", zap.String("session_id", sess.id), zap.Error(err))
		}
		sess.booted = true
		return
	}

	sess.set(token, identity)
	sess.booted = true
}

func (s *SessionService) Login(ctx context.Context, sess *Session, creds domain.Credentials) (*Session, error) {
	if err := validation.Check(creds, "Please enter your email and password."); err != nil {
		return nil, err
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, authFailure(err, "Invalid credentials.")
	}
	return s.establish(ctx, sess, res)
}

func (s *SessionService) Register(ctx context.Context, sess *Session, form domain.RegistrationForm) (*Session, error) {
	if fields := validation.Struct(form); len(fields) > 0 {
		msg := "Please fill all required fields."
		if _, ok := fields["confirmPassword"]; ok {
			msg = "Passwords do not match"
		}
		return nil, &domain.ValidationError{Message: msg, Fields: fields}
	}

	res, err := s.auth.Register(ctx, repository.NewRegisterPayload(form))
	if err != nil {
		return nil, authFailure(err, "Registration failed.")
	}
	return s.establish(ctx, sess, res)
}

// establish authenticates a brand-new session carrying res and retires sess. The id the
// browser held before login is never the one that ends up authenticated.
func (s *SessionService) establish(ctx context.Context, sess *Session, res *domain.AuthResult) (*Session, error) {
	if res == nil || res.Token == "" {
		return nil, &domain.AuthError{Message: "Invalid credentials."}
	}

	fresh := newSession(NewID(), s.now())
	fresh.set(res.Token, res.User)
	fresh.booted = true
	if err := s.store.SaveCredential(ctx, fresh.id, s.credentialKey, res.Token, s.credentialTTL); err != nil {
		s.log.Warn("save credential", zap.String("session_id", fresh.id), zap.Error(err))
	}

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.sessions[fresh.id] = fresh
	s.mu.Unlock()

	sess.bootMu.Lock()
	sess.clear()
	sess.booted = true
	sess.bootMu.Unlock()
	if err := s.store.DeleteCredential(ctx, sess.id, s.credentialKey); err != nil {
		s.log.Warn("delete credential", zap.String("session_id", sess.id), zap.Error(err))
	}

	for _, fn := range s.onRotate {
		fn(sess.id, fresh.id)
	}
	return fresh, nil
}

// Logout forgets the credential and identity immediately. Removing the stored copy is best effort.
func (s *SessionService) Logout(ctx context.Context, sess *Session) {
	sess.bootMu.Lock()
	sess.clear()
	sess.booted = true
	sess.bootMu.Unlock()

	if err := s.store.DeleteCredential(ctx, sess.id, s.credentialKey); err != nil {
		s.log.Warn("delete credential", zap.String("session_id", sess.id), zap.Error(err))
	}
}

// UpdateProfile sends profile as given, full or partial, and replaces the cached identity with
// what the backend returns. On failure the cached identity is untouched.
func (s *SessionService) UpdateProfile(ctx context.Context, sess *Session, profile domain.Profile) (*domain.Identity, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrLoginRequired
	}

	identity, err := s.auth.UpdateProfile(repository.WithCredentialSource(ctx, sess), profile)
	if err != nil {
		return nil, domain.WithMessage(err, "Failed to update profile.")
	}
	if identity == nil {
		return nil, &domain.BackendError{Message: "Failed to update profile."}
	}

	sess.setIdentity(identity)
	return sess.Identity(), nil
}

// Sweep drops sessions idle for longer than the idle TTL and returns how many went.
// Stored credentials are kept, so a returning browser bootstraps again.
func (s *SessionService) Sweep() int {
	deadline := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if sess.idleSince().Before(deadline) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		for _, fn := range s.onEvict {
			fn(id)
		}
	}
	return len(evicted)
}

// RunJanitor sweeps every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func authFailure(err error, fallback string) error {
	return &domain.AuthError{Message: domain.UserMessage(err, fallback), Err: err}
}

var _ SessionUseCase = (*SessionService)(nil)
