package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/navigation"
)

// ErrEmptyToken is returned when SetToken is called without a token.
var ErrEmptyToken = errors.New("session token must not be empty")

// Backend persists the single bearer token slot. Load returns "" when nothing is stored.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Navigator receives the view change triggered by ClearToken.
type Navigator interface {
	Navigate(view navigation.View)
}

// Store owns the operator session: an in-memory token mirrored to a durable backend.
type Store struct {
	mu      sync.RWMutex
	token   string
	backend Backend
	nav     Navigator
	logger  *zap.Logger

	hooksMu sync.Mutex
	hooks   []func()
}

// NewStore restores any persisted token from backend.
func NewStore(ctx context.Context, backend Backend, nav Navigator, logger *zap.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("session backend is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	token, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session token: %w", err)
	}
	if token != "" {
		logger.Info("restored persisted session")
	}

	return &Store{
		token:   token,
		backend: backend,
		nav:     nav,
		logger:  logger,
	}, nil
}

// SetToken persists token, then exposes it to subsequent API calls.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.backend.Save(ctx, token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}

	s.mu.Lock()
	previous := s.token
	s.token = token
	s.mu.Unlock()

	s.logger.Debug("session token stored")
	if previous != token {
		s.notify()
	}
	return nil
}

// OnChange registers fn to run after the token is replaced or cleared.
// Hooks run synchronously without any session lock held.
func (s *Store) OnChange(fn func()) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) notify() {
	s.hooksMu.Lock()
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// HasToken reports whether a token is held. It does not check validity.
func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ClearToken removes the persisted token and sends the operator to the login view.
// The in-memory token is dropped and navigation happens even if the backend fails.
func (s *Store) ClearToken(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	return s.finishClear(ctx)
}

// Revoke clears the session only when token is still the one held. A rejection
// for a token that has since been replaced is ignored. It reports whether the
// session was cleared.
func (s *Store) Revoke(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		s.logger.Debug("ignoring rejection of a superseded token")
		return false, nil
	}
	s.token = ""
	s.mu.Unlock()

	return true, s.finishClear(ctx)
}

func (s *Store) finishClear(ctx context.Context) error {
	err := s.backend.Delete(ctx)
	if err != nil {
		s.logger.Error("failed to delete persisted session token", zap.Error(err))
		err = fmt.Errorf("delete session token: %w", err)
	}

	if s.nav != nil {
		s.nav.Navigate(navigation.Login)
	}
	s.logger.Info("session cleared")
	s.notify()
	return err
}
