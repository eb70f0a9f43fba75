// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// LoginRequest contains the parameters for password authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Remember stores the issued token in a long-lived cookie instead of the
	// server-side session.
	Remember bool `json:"remember"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 128),
		),
	)
}

// RegenerateTokenRequest contains the parameters for rotating an existing token.
type RegenerateTokenRequest struct {
	Token string `json:"token"`
	// ExpiryDate is an absolute Unix timestamp for the rotated token.
	// Zero means "now plus the default TTL".
	ExpiryDate int64 `json:"expiry_date"`
}

// Validate checks if the regenerate token request is valid.
func (r *RegenerateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.TokenString,
			validation.Length(tokenDomain.TokenLength, tokenDomain.TokenLength),
		),
		validation.Field(&r.ExpiryDate,
			validation.Min(int64(0)),
		),
	)
}

// SweepTokensRequest contains the parameters for the administrative sweep.
type SweepTokensRequest struct {
	// UserID additionally removes every token of this user when non-nil.
	UserID *int64 `json:"user_id"`
	// DryRun reports the number of expired rows without removing anything.
	DryRun bool `json:"dry_run"`
}

// Validate checks if the sweep tokens request is valid.
func (r *SweepTokensRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID,
			validation.By(validatePositiveUserID),
		),
	)
}

// validatePositiveUserID rejects a present but non-positive user ID. A nil
// pointer means "no user filter" and is valid; a zero value is not, so the
// check cannot rely on rules that skip empty values.
func validatePositiveUserID(value interface{}) error {
	switch v := value.(type) {
	case *int64:
		if v != nil && *v < 1 {
			return validation.NewError("validation_user_id", "must be no less than 1")
		}
	case int64:
		if v < 1 {
			return validation.NewError("validation_user_id", "must be no less than 1")
		}
	}
	return nil
}
