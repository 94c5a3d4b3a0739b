package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account is not activated")
	ErrInvalidActivation  = errors.New("invalid or expired activation link")
)
