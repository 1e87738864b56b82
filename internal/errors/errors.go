package errors

import (
	"errors"
	"fmt"
)

// Common error types for the data-quality client stack
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Query errors
	ErrNotReady   = errors.New("query layer not ready")
	ErrSuperseded = errors.New("response superseded")

	// Resource errors
	ErrNotFound   = errors.New("not found")
	ErrEmptyID    = errors.New("empty resource id")
	ErrServer     = errors.New("server error")
	ErrBadRequest = errors.New("bad request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
