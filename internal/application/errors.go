package application

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAccount means register was called with an email that
	// already has an account.
	ErrDuplicateAccount = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, missing local credential,
	// and wrong password alike. Callers must not be able to tell these apart,
	// otherwise login becomes an account-enumeration oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConcurrentRegistration means a store uniqueness constraint fired
	// during creation or linking even after a retry. Safe for the caller to
	// retry the whole operation.
	ErrConcurrentRegistration = errors.New("concurrent registration conflict")
)

// WrongAuthMethodError is returned when a local login is attempted on an
// account bound to an external provider. It carries the provider name so the
// caller can tell the user which sign-in to use instead.
type WrongAuthMethodError struct {
	Provider string
}

func (e *WrongAuthMethodError) Error() string {
	return fmt.Sprintf("account uses %s authentication", e.Provider)
}
