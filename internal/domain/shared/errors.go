package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotAuthenticatedError is returned when a call arrives without a player identity
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string {
	return "not authenticated: no player identity supplied"
}

// PermissionDeniedError is returned when the caller does not own the record it acts on
type PermissionDeniedError struct {
	PlayerID string
	Action   string
	Resource string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: player %s cannot %s %s", e.PlayerID, e.Action, e.Resource)
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps an opaque failure from the persistence layer.
// The domain state was not changed by the failed operation, but a caller
// retrying a write must re-read current state first.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError wraps cause, returning nil when cause is nil
func NewStorageError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StorageError{Op: op, Cause: cause}
}
