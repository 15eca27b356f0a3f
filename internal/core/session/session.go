// Package session owns one client's authentication lifecycle: the bearer
// credential, the resolved principal and their durable copy.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// CredentialKey is the storage key holding the bearer credential.
const CredentialKey = "token"

// State is the lifecycle position of a session.
type State int

const (
	LoggedOut State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "logged_out"
	}
}

// Store is the single writer for one session's credential and principal.
// Reads are safe from concurrent goroutines.
type Store struct {
	storage ports.Storage
	auth    ports.AuthAPI
	log     zerolog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	state     State
	token     string
	principal *domain.Principal

	subMu   sync.Mutex
	subs    map[int]func(*domain.Principal)
	nextSub int
}

// New builds a logged-out store. Call Bootstrap to restore a persisted
// credential.
func New(storage ports.Storage, auth ports.AuthAPI, log zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		auth:    auth,
		log:     log,
		now:     time.Now,
		subs:    make(map[int]func(*domain.Principal)),
	}
}

// Bootstrap restores a persisted credential and resolves its principal. A
// credential that has expired or that the backend rejects is discarded;
// only storage failures are returned.
func (s *Store) Bootstrap(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, CredentialKey)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if !ok || token == "" {
		return nil
	}
	if s.expired(token) {
		s.log.Debug().Msg("persisted credential expired, discarding")
		return s.Logout(ctx)
	}

	s.setState(Authenticating, token, nil)
	p, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("persisted credential rejected, logging out")
		return s.Logout(ctx)
	}
	s.setState(Authenticated, token, p)
	s.publish(p)
	return nil
}

// Login exchanges credentials, persists the bearer token and resolves the
// principal. A rejected login leaves the previous session untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Principal, error) {
	prevState, prevToken, prevPrincipal := s.snapshot()
	s.setState(Authenticating, prevToken, prevPrincipal)
	grant, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.setState(prevState, prevToken, prevPrincipal)
		return nil, err
	}
	return s.adopt(ctx, grant.AccessToken, grant.User)
}

// Register creates an account. When the backend issues a credential the
// store behaves as after Login. When it answers with a message instead, the
// result is pending and the store is unchanged.
func (s *Store) Register(ctx context.Context, fields domain.RegisterFields) (*domain.Registration, error) {
	prevState, prevToken, prevPrincipal := s.snapshot()
	s.setState(Authenticating, prevToken, prevPrincipal)

	reply, err := s.auth.Register(ctx, fields)
	if err != nil {
		s.setState(prevState, prevToken, prevPrincipal)
		return nil, err
	}

	if reply.AccessToken == "" {
		s.setState(prevState, prevToken, prevPrincipal)
		return &domain.Registration{
			Pending: true,
			Message: reply.Message,
			UserID:  reply.AccountID,
			Raw:     reply.Raw,
		}, nil
	}

	p, err := s.adopt(ctx, reply.AccessToken, reply.User)
	if err != nil {
		return nil, err
	}
	id := reply.AccountID
	if id == "" {
		id = p.ID
	}
	return &domain.Registration{UserID: id, Principal: p, Raw: reply.Raw}, nil
}

// RegisterWith is the positional form of Register.
func (s *Store) RegisterWith(ctx context.Context, email, password, name string, role domain.Role, phone string) (*domain.Registration, error) {
	return s.Register(ctx, domain.RegisterFields{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     role,
		Phone:    phone,
	})
}

// adopt persists a fresh credential and resolves its principal, falling
// back to the principal carried in the grant if the lookup fails.
func (s *Store) adopt(ctx context.Context, token string, granted *domain.Principal) (*domain.Principal, error) {
	if err := s.storage.Set(ctx, CredentialKey, token); err != nil {
		s.setState(LoggedOut, "", nil)
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	s.setState(Authenticating, token, nil)

	p, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		if granted == nil {
			_ = s.Logout(ctx)
			return nil, fmt.Errorf("resolve principal: %w", err)
		}
		s.log.Warn().Err(err).Msg("principal lookup failed, using login response")
		p = granted
	}
	s.setState(Authenticated, token, p)
	s.publish(p)
	return clonePrincipal(p), nil
}

// Logout clears the credential and principal and removes the persisted key.
func (s *Store) Logout(ctx context.Context) error {
	_, _, had := s.snapshot()
	s.setState(LoggedOut, "", nil)
	err := s.storage.Delete(ctx, CredentialKey)
	if had != nil {
		s.publish(nil)
	}
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Invalidate is a forced logout after the backend rejected the credential.
func (s *Store) Invalidate(ctx context.Context, reason string) {
	s.log.Warn().Str("reason", reason).Msg("session invalidated")
	if err := s.Logout(ctx); err != nil {
		s.log.Error().Err(err).Msg("forced logout")
	}
}

// Token returns the current bearer credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Principal returns a copy of the current principal, nil when logged out.
func (s *Store) Principal() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePrincipal(s.principal)
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// RequirePrincipal returns the principal or domain.ErrNotAuthenticated.
func (s *Store) RequirePrincipal() (*domain.Principal, error) {
	p := s.Principal()
	if p == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return p, nil
}

// Subscribe registers fn for every principal change. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(*domain.Principal)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(p *domain.Principal) {
	s.subMu.Lock()
	fns := make([]func(*domain.Principal), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(clonePrincipal(p))
	}
}

func (s *Store) setState(state State, token string, p *domain.Principal) {
	s.mu.Lock()
	s.state = state
	s.token = token
	s.principal = p
	s.mu.Unlock()
}

func (s *Store) snapshot() (State, string, *domain.Principal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.token, s.principal
}

// expired peeks at an unverified exp claim. Opaque or claim-less tokens are
// treated as live and left to the backend to judge.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

