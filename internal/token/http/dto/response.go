package dto

import (
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// LoginResponse contains the result of password authentication.
// SECURITY: The token is only returned once and must be saved securely.
type LoginResponse struct {
	Token      string `json:"token"`
	ExpiryDate int64  `json:"expiry_date"`
}

// PrincipalResponse represents the resolved principal in API responses.
// The raw password hash never appears here.
type PrincipalResponse struct {
	UserID      int64  `json:"user_id"`
	Code        string `json:"code"`
	UserLevelID int64  `json:"user_level_id"`
	LevelTitle  string `json:"level_title"`
	Token       string `json:"token"`
	ExpiryDate  int64  `json:"expiry_date"`
}

// MapPrincipalToResponse converts a domain principal projection to an API response.
func MapPrincipalToResponse(principal *tokenDomain.PrincipalView) PrincipalResponse {
	return PrincipalResponse{
		UserID:      principal.UserID,
		Code:        principal.UserCode,
		UserLevelID: principal.UserLevelID,
		LevelTitle:  principal.LevelTitle,
		Token:       principal.Token,
		ExpiryDate:  principal.ExpiryDate,
	}
}

// RegenerateTokenResponse contains the result of rotating a token.
type RegenerateTokenResponse struct {
	Token string `json:"token"`
}

// SweepTokensResponse contains the result of the administrative sweep.
type SweepTokensResponse struct {
	Deleted int64 `json:"deleted"`
	DryRun  bool  `json:"dry_run"`
}
