package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/navigation"
	"github.com/mamadbah2/stockdesk/internal/service/auth"
	"github.com/mamadbah2/stockdesk/internal/session"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

// SessionView exposes what the console may show about the current session.
type SessionView interface {
	HasToken() bool
	Claims() (session.Claims, bool)
}

// AuthHandler serves the login view and the auth actions.
type AuthHandler struct {
	flow    auth.Flow
	session SessionView
	logger  *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(flow auth.Flow, session SessionView, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{flow: flow, session: session, logger: logger}
}

type loginViewResponse struct {
	View          navigation.View `json:"view"`
	Authenticated bool            `json:"authenticated"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// LoginView renders the login view state.
func (h *AuthHandler) LoginView(c *gin.Context) {
	c.JSON(http.StatusOK, loginViewResponse{View: navigation.Login, Authenticated: h.session.HasToken()})
}

// Login exchanges credentials for a session.
func (h *AuthHandler) Login(c *gin.Context) {
	h.credentialsAction(c, http.StatusUnauthorized, func(ctx context.Context, creds models.Credentials) (int, any, error) {
		if err := h.flow.Login(ctx, creds.Username, creds.Password); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, gin.H{"message": "Login successful", "redirect": string(navigation.Inventory)}, nil
	})
}

// Register creates an account without logging in.
func (h *AuthHandler) Register(c *gin.Context) {
	h.credentialsAction(c, http.StatusBadRequest, func(ctx context.Context, creds models.Credentials) (int, any, error) {
		payload, err := h.flow.Register(ctx, creds.Username, creds.Password)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, payload, nil
	})
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.flow.Logout(c.Request.Context()); err != nil {
		// The in-memory session is gone regardless; only the durable copy failed.
		h.logger.Warn("logout could not clear persisted session", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"redirect": string(navigation.Login)})
}

// Session reports whether a token is held and what it claims.
func (h *AuthHandler) Session(c *gin.Context) {
	resp := sessionResponse{Authenticated: h.session.HasToken()}
	if claims, ok := h.session.Claims(); ok {
		resp.Subject = claims.Subject
		if !claims.ExpiresAt.IsZero() {
			expiresAt := claims.ExpiresAt
			resp.ExpiresAt = &expiresAt
		}
	}
	c.JSON(http.StatusOK, resp)
}

// credentialsAction binds credentials and runs action. A reply the server
// rejected with a 4xx maps to rejected; server and transport failures map to
// 502 and an unstorable session to 500.
func (h *AuthHandler) credentialsAction(c *gin.Context, rejected int, action func(context.Context, models.Credentials) (int, any, error)) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.logger.Warn("invalid credentials payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, body, err := action(c.Request.Context(), creds)
	if err != nil {
		message := msgRequestFailed
		var userErr *auth.UserError
		if errors.As(err, &userErr) {
			message = userErr.Message
		} else {
			h.logger.Error("auth action failed", zap.Error(err))
		}
		c.JSON(authFailureStatus(err, rejected), ErrorResponse{Error: message})
		return
	}

	c.JSON(status, body)
}

func authFailureStatus(err error, rejected int) int {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, auth.ErrSessionUnavailable):
		return http.StatusInternalServerError
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError:
		return rejected
	default:
		return http.StatusBadGateway
	}
}
