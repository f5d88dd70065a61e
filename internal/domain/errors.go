package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database (or is owned by another user).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, negative budget amount).
// It is always raised before any storage access.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as saving the same destination twice.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrPersistence is returned by services when the storage layer fails
// (connectivity, constraint violation, aborted transaction). The enclosing
// transaction, if any, has already been rolled back when a caller sees it.
// Handlers should map this to HTTP 500 without exposing the cause.
var ErrPersistence = errors.New("persistence error")
