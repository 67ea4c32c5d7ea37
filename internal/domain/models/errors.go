package models

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned by the admin gate on a credential mismatch.
// The gate is a UI convenience, not an access-control system: there is no
// lockout and no rate limiting.
var ErrNotAuthorized = errors.New("not authorized")

// TransportError marks a network or server failure on a remote call. Workflows
// recover from it by aborting the current step, keeping user input and posting
// a notification.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError проверяет, является ли ошибка транспортной
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsValidationError reports whether err is a local pre-I/O validation failure.
func IsValidationError(err error) bool {
	var ve *PromptValidationError
	return errors.As(err, &ve)
}
