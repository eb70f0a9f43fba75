// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

var (
	// tokenRegex matches opaque bearer token strings (alphanumeric only).
	tokenRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// TokenString validates that a string contains only characters from the token alphabet
var TokenString = validation.NewStringRuleWithError(
	func(s string) bool {
		return tokenRegex.MatchString(s)
	},
	validation.NewError("validation_token_string", "must contain only alphanumeric characters"),
)
