package session

import (
	"context"
	"sync"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/common/clock"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/profile-editor/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

// Grant is what a remote authenticator hands back. User may be nil, in which
// case the session user is fabricated locally.
type Grant struct {
	Token string
	User  *authdomain.User
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Grant, error)
}

type AuthenticatorFunc func(ctx context.Context, email, password string) (Grant, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, email, password string) (Grant, error) {
	return f(ctx, email, password)
}

type Result struct {
	Success bool
	Message string
}

const loginSuccessMessage = "Login successful!"

type Options struct {
	Storage       Storage
	Authenticator Authenticator
	IDGenerator   commoncrypto.IDGenerator
	Clock         clock.Clock
	// Latency is the simulated delay before credentials are checked.
	Latency time.Duration
	Log     *logger.Logger
}

// Store is the client-side session. A session exists iff a user is set and
// the authenticated flag is raised.
type Store struct {
	mu    sync.RWMutex
	state State

	storage       Storage
	authenticator Authenticator
	idGenerator   commoncrypto.IDGenerator
	clock         clock.Clock
	latency       time.Duration
	log           *logger.Logger
}

// NewStore restores persisted state when Storage is set. Unreadable or
// foreign state is discarded and the store starts logged out.
func NewStore(opts Options) *Store {
	s := &Store{
		storage:       opts.Storage,
		authenticator: opts.Authenticator,
		idGenerator:   opts.IDGenerator,
		clock:         opts.Clock,
		latency:       opts.Latency,
		log:           opts.Log,
	}
	if s.idGenerator == nil {
		s.idGenerator = commoncrypto.NewUUIDGenerator()
	}
	if s.clock == nil {
		s.clock = clock.NewRealClock()
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.storage == nil {
		return
	}

	data, ok, err := s.storage.Load(constants.SessionStorageKey)
	if err != nil {
		s.warnf("session storage unreadable, starting logged out: %v", err)
		return
	}
	if !ok {
		return
	}

	state, err := Decode(data)
	if err != nil {
		s.warnf("discarding persisted session: %v", err)
		return
	}
	s.state = state
}

func (s *Store) Login(ctx context.Context, email, password string) Result {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{Success: false, Message: ctx.Err().Error()}
		case <-timer.C:
		}
	}

	if err := authdomain.ValidateCredentials(email, password); err != nil {
		return Result{Success: false, Message: errorMessage(err)}
	}

	var grant Grant
	if s.authenticator != nil {
		g, err := s.authenticator.Authenticate(ctx, email, password)
		if err != nil {
			return Result{Success: false, Message: errorMessage(err)}
		}
		grant = g
	}

	user := grant.User
	if user == nil {
		id, err := s.idGenerator.NewID()
		if err != nil {
			return Result{Success: false, Message: errorMessage(err)}
		}
		u := authdomain.NewUser(id, email, s.clock.Now().UTC())
		user = &u
	}

	s.mu.Lock()
	s.state = State{User: user, IsAuthenticated: true, Token: grant.Token}
	s.persistLocked()
	s.mu.Unlock()

	return Result{Success: true, Message: loginSuccessMessage}
}

// Logout clears the session whether or not one exists.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.persistLocked()
}

func (s *Store) CheckAuth() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.IsAuthenticated
}

func (s *Store) User() (authdomain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return authdomain.User{}, false
	}
	return *s.state.User, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	data, err := Encode(s.state)
	if err != nil {
		s.warnf("session encode failed: %v", err)
		return
	}
	if err := s.storage.Save(constants.SessionStorageKey, data); err != nil {
		s.warnf("session persist failed: %v", err)
	}
}

func (s *Store) warnf(format string, args ...any) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}

func errorMessage(err error) string {
	if de, ok := commonerrors.AsDomainError(err); ok {
		return de.Message()
	}
	return err.Error()
}
