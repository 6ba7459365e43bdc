package service

import "errors"

// Every exposed operation fails with exactly one of these kinds so the HTTP
// layer can map them to status codes without inspecting error text.
var (
	// ErrValidation indicates a malformed or missing required field.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID indicates the supplied identifier is not well formed.
	// It is reported before any store lookup is attempted.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound indicates a well-formed id with no matching record.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate value for a unique field.
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized indicates a missing, malformed, foreign, or revoked
	// token. The failure modes are deliberately indistinguishable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates a failed login. It does not reveal
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
