package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/memorize-api/internal/common/errors"
)

var (
	ErrValidationName = commonerrors.NewDomainError(
		"VALIDATION_NAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"O nome é obrigatório!",
	)

	ErrValidationEmail = commonerrors.NewDomainError(
		"VALIDATION_EMAIL_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"O email é obrigatório!",
	)

	ErrValidationPassword = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"A senha é obrigatória!",
	)

	ErrValidationPasswordMismatch = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_MISMATCH",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"A senha e a confirmação precisam ser iguais!",
	)

	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusUnprocessableEntity,
		"Por favor, utilize outro e-mail!",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryUnauthorized,
		http.StatusUnprocessableEntity,
		"Senha inválida",
	)

	ErrMemorizeNotFound = commonerrors.NewDomainError(
		"MEMORIZE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"esse memorize não existe!",
	)

	ErrUserNotFound = commonerrors.ErrUserNotFound
)

func storeError(cause error) commonerrors.DomainError {
	return commonerrors.ErrStore.WithCause(cause)
}

func internalError(cause error) commonerrors.DomainError {
	return commonerrors.ErrInternalError.WithCause(cause)
}
