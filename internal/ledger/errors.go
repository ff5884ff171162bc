package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthenticationFailed matches both authentication failures below
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAuthUserNotFound     = fmt.Errorf("%w: user not found", ErrAuthenticationFailed)
	ErrAuthWrongPassword    = fmt.Errorf("%w: wrong password", ErrAuthenticationFailed)
)
