package inventory

import (
	"errors"

	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

var (
	// ErrInvalidQuantity indicates a reduction quantity that is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive whole number")
	// ErrMissingRevision indicates the item has no revision token to submit.
	ErrMissingRevision = errors.New("item revision is missing")
	// ErrInvalidDraft indicates the new item draft failed local validation.
	ErrInvalidDraft = errors.New("invalid item draft")
	// ErrUnknownItem indicates an item id absent from the current snapshot.
	ErrUnknownItem = errors.New("unknown inventory item")
	// ErrBusy indicates the same action already has a request outstanding.
	ErrBusy = errors.New("a request for this action is already in progress")
)

const (
	msgInvalidQuantity = "Please enter a valid stock reduction value."
	msgMissingRevision = "Item revision is missing. Please refresh the inventory."
	msgUnknownItem     = "Item not found. Please refresh the inventory."
	msgBusy            = "This action is already in progress. Please wait."
	msgReduceFailed    = "Failed to reduce stock. Please try again."
	msgAddFailed       = "Failed to add item. Please try again."
	msgLoadFailed      = "Failed to load inventory."
)

// ValidationError is a local input problem detected before any request is sent.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// OperationError is a failed request. Message is safe to show to the operator.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *OperationError) Unwrap() error { return e.Err }

func operationError(err error, fallback string) *OperationError {
	msg := client.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &OperationError{Message: msg, Err: err}
}
