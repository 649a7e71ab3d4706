package common

import "errors"

// RejectReason is a machine-readable code describing why a mutation was refused.
type RejectReason string

const (
	ReasonInvalidUsername    RejectReason = "invalid_username"
	ReasonInvalidPassword    RejectReason = "invalid_password"
	ReasonUsernameTaken      RejectReason = "username_taken"
	ReasonInvalidMessageText RejectReason = "invalid_message_text"
	ReasonUnknownAuthor      RejectReason = "unknown_author"
	ReasonMessageNotFound    RejectReason = "message_not_found"
	ReasonMalformedRequest   RejectReason = "malformed_request"
)

// Rejection is an expected, recoverable negative outcome of a domain
// operation. It is never the result of a storage failure.
type Rejection struct {
	Reason RejectReason
}

// Reject builds a Rejection for the given reason.
func Reject(reason RejectReason) *Rejection {
	return &Rejection{Reason: reason}
}

func (r *Rejection) Error() string {
	return "rejected: " + string(r.Reason)
}

// Is makes errors.Is(err, ErrRejected) true for any Rejection.
func (r *Rejection) Is(target error) bool {
	return target == ErrRejected
}

// ReasonOf extracts the rejection reason from err, if err is (or wraps) a Rejection.
func ReasonOf(err error) (RejectReason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}
