// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers to
// distinguish between different failure scenarios: the not-found errors map
// to HTTP 404, while ErrForbidden signals that a resource exists but belongs
// to a different landlord and maps to HTTP 403.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrPropertyNotFound is returned when a property cannot be found in the DB.
var ErrPropertyNotFound = errors.New("property not found")

// ErrPaymentNotFound is returned when a rent payment cannot be found.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrTicketNotFound is returned when a maintenance request cannot be found.
var ErrTicketNotFound = errors.New("request not found")

// ErrUserNotFound is returned when a user cannot be found.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")
