package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/navigation"
	"github.com/mamadbah2/stockdesk/internal/service/inventory"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

const (
	msgSessionExpired = "Session expired. Please log in again."
	msgExportDisabled = "Inventory export is not configured."
	msgRequestFailed  = "Request failed. Please try again."
)

// ErrorResponse is the body of every failed console request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// respondError maps service errors onto console status codes.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *inventory.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: validationErr.Message})
		return
	}

	var operationErr *inventory.OperationError
	isOperation := errors.As(err, &operationErr)
	message := userMessage(err)

	switch {
	case errors.Is(err, inventory.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: message})
	case errors.Is(err, client.ErrUnauthorized):
		// The client's unauthorized hook has already cleared the session.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgSessionExpired, Redirect: string(navigation.Login)})
	case errors.Is(err, reporting.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: msgExportDisabled})
	default:
		if !isOperation {
			logger.Error("unhandled console error", zap.Error(err))
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: message})
	}
}

// isRenderable reports whether a failed load can still be shown alongside the
// previous snapshot instead of replacing the page.
func isRenderable(err error) bool {
	return !errors.Is(err, client.ErrUnauthorized)
}

func userMessage(err error) string {
	var operationErr *inventory.OperationError
	if errors.As(err, &operationErr) {
		return operationErr.Message
	}
	return msgRequestFailed
}
