package auth

import (
	"errors"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a user-facing input problem.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// messages keyed by struct field, matching what clients already display.
var fieldMessages = map[string]string{
	"Email":    "Invalid Email",
	"Password": "Invalid password",
	"Username": "Invalid username",
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return strongPassword(fl.Field().String())
		})
	})
	return validate
}

// Validate checks a request DTO and reports the first failing field.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := fieldMessages[fieldErrs[0].StructField()]; ok {
			return &ValidationError{Message: msg}
		}
		return &ValidationError{Message: fieldErrs[0].Error()}
	}
	return &ValidationError{Message: err.Error()}
}

// strongPassword requires eight characters, an upper-case letter and a digit.
func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}
