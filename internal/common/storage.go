package common

import (
	"errors"
	"fmt"
)

// StorageErrorKind classifies driver failures.
type StorageErrorKind int

const (
	KindUnknown StorageErrorKind = iota
	KindConnectionFailure
	KindConstraintViolation
)

func (k StorageErrorKind) String() string {
	switch k {
	case KindConnectionFailure:
		return "connection_failure"
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "unknown"
	}
}

// SQLSTATE codes of the constraint violations the services react to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// StorageError wraps a failure reported by the database driver.
//
// Op names the repository operation (e.g. "accounts.create"). Code carries the
// SQLSTATE when the driver reported one.
type StorageError struct {
	Op   string
	Kind StorageErrorKind
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("db error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a StorageError caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	return hasCode(err, CodeUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a StorageError caused by a foreign key.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, CodeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var se *StorageError
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == KindConstraintViolation && se.Code == code
}
