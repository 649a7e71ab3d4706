package services

import (
	"errors"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/go-playground/validator/v10"
)

// Message text bounds, counted in characters.
const messageTextRule = "min=1,max=255"

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"min=4"`
}

var credentialReasons = map[string]common.RejectReason{
	"Username": common.ReasonInvalidUsername,
	"Password": common.ReasonInvalidPassword,
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// rejectionFor turns a validation failure into a Rejection. The first failing
// field decides the reason; fields missing from reasons fall back to fallback.
// Errors that are not validation failures are returned unchanged.
func rejectionFor(err error, reasons map[string]common.RejectReason, fallback common.RejectReason) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	if reason, ok := reasons[verrs[0].StructField()]; ok {
		return common.Reject(reason)
	}
	return common.Reject(fallback)
}
