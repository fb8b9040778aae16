// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is soft deleted.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation it is not
// allowed to perform. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as attaching the same feature twice to a room
// type. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned when a staff user is created with a taken
// username or email.
var ErrUsernameExists = errors.New("username already exists")
