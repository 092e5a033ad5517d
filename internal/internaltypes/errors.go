package internaltypes

import "errors"

var (
	ErrMissingCredentials = errors.New("APP_USERNAME and APP_PASSWORD are required")
	ErrLoginRejected      = errors.New("login rejected")
	ErrAttemptsExhausted  = errors.New("booking attempts exhausted")
	ErrReadOnly           = errors.New("driver is read-only")
)
