package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/navigation"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

var (
	// ErrNoToken indicates a successful login reply that carried no token.
	ErrNoToken = errors.New("login response did not include a token")
	// ErrSessionUnavailable indicates the token was issued but could not be stored.
	ErrSessionUnavailable = errors.New("session could not be stored")
)

const (
	msgNoToken            = "Login failed: No token received"
	msgInvalidCredentials = "Invalid username or password"
	msgRegisterFailed     = "Registration failed"
	msgSessionFailed      = "Login failed: could not store session"
)

// UserError carries a message meant for the operator alongside its cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *UserError) Unwrap() error { return e.Err }

// SessionStore is the part of the session the auth flow drives.
type SessionStore interface {
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	HasToken() bool
}

// Navigator receives the view change after a successful login.
type Navigator interface {
	Navigate(view navigation.View)
}

// Flow describes the operations the console can perform around authentication.
type Flow interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) (map[string]any, error)
	Logout(ctx context.Context) error
	Authenticated() bool
}

// Service is the production implementation backed by the inventory API.
type Service struct {
	client  client.Client
	session SessionStore
	nav     Navigator
	logger  *zap.Logger
}

// NewService wires a new auth flow.
func NewService(c client.Client, session SessionStore, nav Navigator, logger *zap.Logger) *Service {
	svc := &Service{
		client:  c,
		session: session,
		nav:     nav,
		logger:  logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Login exchanges credentials for a token. The session is only touched when a
// token comes back. Credentials are not checked locally.
func (s *Service) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		msg := client.ServerMessage(err)
		if msg == "" {
			msg = msgInvalidCredentials
		}
		return &UserError{Message: msg, Err: err}
	}

	if resp == nil || resp.Token == "" {
		s.logger.Error("token not received in login response", zap.String("username", username))
		return &UserError{Message: msgNoToken, Err: ErrNoToken}
	}

	if err := s.session.SetToken(ctx, resp.Token); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return &UserError{Message: msgSessionFailed, Err: fmt.Errorf("%w: %w", ErrSessionUnavailable, err)}
	}

	s.logger.Info("login succeeded", zap.String("username", username))
	if s.nav != nil {
		s.nav.Navigate(navigation.Inventory)
	}
	return nil
}

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, username, password string) (map[string]any, error) {
	payload, err := s.client.Register(ctx, username, password)
	if err != nil {
		s.logger.Warn("registration failed", zap.String("username", username), zap.Error(err))
		msg := client.ServerMessage(err)
		if msg == "" {
			msg = msgRegisterFailed
		}
		return nil, &UserError{Message: msg, Err: err}
	}

	s.logger.Info("registration succeeded", zap.String("username", username))
	return payload, nil
}

// Logout clears the session, which also returns the operator to the login view.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.ClearToken(ctx)
}

// Authenticated reports whether a token is held.
func (s *Service) Authenticated() bool {
	return s.session.HasToken()
}
