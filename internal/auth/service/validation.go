package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
)

// Credentials is a sign-in attempt as submitted.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

type CredentialValidator struct {
	validate *validator.Validate
}

// NewCredentialValidator counts the minimum password length in characters
// and the maximum in bytes, since bcrypt only reads the first 72 bytes.
func NewCredentialValidator() *CredentialValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= constants.PasswordMaxBytes
	})
	v.RegisterAlias("password", fmt.Sprintf("min=%d,bcryptlen", constants.PasswordMinLength))
	return &CredentialValidator{validate: v}
}

// Validate reports whether creds are well-formed enough to look up.
func (cv *CredentialValidator) Validate(creds Credentials) error {
	return cv.validate.Struct(creds)
}
