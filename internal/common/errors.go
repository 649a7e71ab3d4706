// Package common defines shared sentinel errors and error types used across
// the repository, service and transport layers. Callers should use errors.Is
// and errors.As to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrRejected is matched by every *Rejection.
	ErrRejected = errors.New("rejected")
)
