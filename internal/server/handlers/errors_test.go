package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/service/auth"
	"github.com/mamadbah2/stockdesk/internal/service/inventory"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		status   int
		message  string
		redirect string
	}{
		{
			name:    "validation",
			err:     &inventory.ValidationError{Message: "Please enter a valid stock reduction value.", Err: inventory.ErrInvalidQuantity},
			status:  http.StatusUnprocessableEntity,
			message: "Please enter a valid stock reduction value.",
		},
		{
			name:    "busy",
			err:     &inventory.OperationError{Message: "This action is already in progress. Please wait.", Err: inventory.ErrBusy},
			status:  http.StatusConflict,
			message: "This action is already in progress. Please wait.",
		},
		{
			name:     "upstream unauthorized",
			err:      &inventory.OperationError{Message: "Token expired", Err: &client.APIError{StatusCode: http.StatusUnauthorized}},
			status:   http.StatusUnauthorized,
			message:  msgSessionExpired,
			redirect: "/login",
		},
		{
			name:    "export disabled",
			err:     reporting.ErrExportDisabled,
			status:  http.StatusServiceUnavailable,
			message: msgExportDisabled,
		},
		{
			name:    "upstream failure",
			err:     &inventory.OperationError{Message: "Failed to load inventory.", Err: &client.APIError{StatusCode: http.StatusInternalServerError}},
			status:  http.StatusBadGateway,
			message: "Failed to load inventory.",
		},
		{
			name:    "unknown",
			err:     fmt.Errorf("export inventory snapshot: %w", errors.New("quota exceeded")),
			status:  http.StatusBadGateway,
			message: msgRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.redirect, body.Redirect)
		})
	}
}

func TestIsRenderable(t *testing.T) {
	assert.True(t, isRenderable(&inventory.OperationError{Message: "x", Err: errors.New("timeout")}))
	assert.False(t, isRenderable(&inventory.OperationError{Message: "x", Err: &client.APIError{StatusCode: http.StatusUnauthorized}}))
}

func TestAuthFailureStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		rejected int
		expected int
	}{
		{"login rejected", &auth.UserError{Message: "User not found", Err: &client.APIError{StatusCode: http.StatusUnauthorized}}, http.StatusUnauthorized, http.StatusUnauthorized},
		{"register conflict", &auth.UserError{Message: "Username already exists", Err: &client.APIError{StatusCode: http.StatusConflict}}, http.StatusBadRequest, http.StatusBadRequest},
		{"upstream outage", &auth.UserError{Message: "Invalid username or password", Err: &client.APIError{StatusCode: http.StatusServiceUnavailable}}, http.StatusUnauthorized, http.StatusBadGateway},
		{"transport failure", &auth.UserError{Message: "Invalid username or password", Err: errors.New("dial tcp: connection refused")}, http.StatusUnauthorized, http.StatusBadGateway},
		{"missing token", &auth.UserError{Message: "Login failed: No token received", Err: auth.ErrNoToken}, http.StatusUnauthorized, http.StatusBadGateway},
		{"session not stored", &auth.UserError{Message: "Login failed: could not store session", Err: fmt.Errorf("%w: disk full", auth.ErrSessionUnavailable)}, http.StatusUnauthorized, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, authFailureStatus(tt.err, tt.rejected))
		})
	}
}
