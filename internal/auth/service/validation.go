package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/memorize-api/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors maps a struct field to the error reported when it fails.
// Fields are checked in declaration order and the first failure wins.
var fieldErrors = map[string]commonerrors.DomainError{
	"Name":            ErrValidationName,
	"Email":           ErrValidationEmail,
	"Password":        ErrValidationPassword,
	"ConfirmPassword": ErrValidationPasswordMismatch,
}

func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return internalError(err)
	}

	first := verrs[0]
	if domainErr, ok := fieldErrors[first.StructField()]; ok {
		return domainErr
	}
	return internalError(first)
}
