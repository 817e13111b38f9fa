package auth

import "errors"

var (
	// ErrPermissionDenied is returned when a user lacks a granular capability
	// required for an operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAccessDenied is returned when a user is neither an administrator nor
	// the owner of the resource they are acting on. It is distinct from
	// ErrPermissionDenied: one is an ownership/role gate, the other a
	// capability gate.
	ErrAccessDenied = errors.New("access denied")

	// ErrUserNotFound is returned when the principal cannot be resolved.
	ErrUserNotFound = errors.New("user not found")
)
