package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// Client exposes the inventory REST API operations used by the console.
type Client interface {
	FetchInventory(ctx context.Context) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, draft models.NewItemDraft) error
	ReduceStock(ctx context.Context, id string, quantity int, revision string) (*models.InventoryItem, error)
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, username, password string) (map[string]any, error)
}

// TokenSource provides the bearer token to attach to outgoing requests.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

var (
	// ErrUnauthorized matches API errors with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict matches API errors reporting a stale revision (409 or 412).
	ErrConflict = errors.New("revision conflict")
)

// APIError is a non-2xx reply from the inventory API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("inventory api error: status=%d, message=%s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrConflict:
		return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusPreconditionFailed
	}
	return false
}

// ServerMessage returns the message reported by the server for err, or "" when
// err is not an API error or the server gave no message.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// apiError is the error payload shape; servers use either key.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (p *apiError) text() string {
	if p == nil {
		return ""
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithUnauthorizedHandler registers fn to run when a request carrying a bearer
// token is answered with 401. fn receives the token that was rejected.
func WithUnauthorizedHandler(fn func(token string)) Option {
	return func(c *APIClient) { c.onUnauthorized = fn }
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) { c.httpClient = resty.NewWithClient(hc) }
}

var _ Client = (*APIClient)(nil)

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient     *resty.Client
	tokens         TokenSource
	onUnauthorized func(token string)
}

// NewClient builds an inventory API client. tokens may be nil for unauthenticated use.
func NewClient(cfg config.APIConfig, tokens TokenSource, opts ...Option) *APIClient {
	c := &APIClient{
		httpClient: resty.New(),
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		c.httpClient.SetTimeout(cfg.Timeout)
	}

	c.httpClient.OnBeforeRequest(c.attachCredentials)
	c.httpClient.OnAfterResponse(c.detectUnauthorized)

	return c
}

func (c *APIClient) attachCredentials(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("X-Request-ID", uuid.NewString())
	if c.tokens == nil {
		return nil
	}
	if token := c.tokens.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *APIClient) detectUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized || c.onUnauthorized == nil || resp.Request == nil {
		return nil
	}
	if token, ok := strings.CutPrefix(resp.Request.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		c.onUnauthorized(token)
	}
	return nil
}

func (c *APIClient) FetchInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&items).
		SetError(apiErr).
		Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *APIClient) CreateItem(ctx context.Context, draft models.NewItemDraft) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(draft).
		SetError(apiErr).
		Post("/inventory")
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return checkResponse(resp, apiErr)
}

func (c *APIClient) ReduceStock(ctx context.Context, id string, quantity int, revision string) (*models.InventoryItem, error) {
	result := new(models.InventoryItem)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(models.ReduceStockRequest{Quantity: quantity, Revision: revision}).
		SetResult(result).
		SetError(apiErr).
		Put("/inventory/reduce-stock/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("reduce stock for %s: %w", id, err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *APIClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	result := new(models.LoginResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(models.Credentials{Username: username, Password: password}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *APIClient) Register(ctx context.Context, username, password string) (map[string]any, error) {
	result := map[string]any{}
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(models.Credentials{Username: username, Password: password}).
		SetResult(&result).
		SetError(apiErr).
		Post("/auth/register")
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	return result, nil
}

func checkResponse(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    apiErr.text(),
	}
}
