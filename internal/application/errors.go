package application

import "errors"

var (
	// ErrNotFound signals a missing store, config or subscriber record.
	ErrNotFound = errors.New("not found")

	// ErrOriginNotAllowed signals the caller's origin does not match the
	// store's configured domains.
	ErrOriginNotAllowed = errors.New("origin not allowed")

	// ErrDuplicateSubscriber signals the email is already actively
	// subscribed for the store.
	ErrDuplicateSubscriber = errors.New("already subscribed")
)

// ValidationError carries a field-level message for a 400 response.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
