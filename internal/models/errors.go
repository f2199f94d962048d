package models

import "errors"

// Shared error taxonomy. Stores and services return these sentinels; the
// HTTP layer maps them to statuses in one place.
var (
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotOwner           = errors.New("not the owner of this resource")
	ErrNotConfirmed       = errors.New("account is not confirmed")
	ErrNotFound           = errors.New("not found")

	ErrTokenInvalid      = errors.New("token is invalid")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenWrongPurpose = errors.New("token issued for a different purpose")
)
