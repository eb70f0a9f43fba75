// Package domain defines the core entities for bearer token authentication.
package domain

// TokenLength is the length of every issued bearer token string.
const TokenLength = 32

// Token is a stored bearer credential. The token string uniquely identifies
// at most one active row; expired rows must never resolve to a principal.
type Token struct {
	ID         int64
	Token      string
	UserID     int64
	ExpiryDate int64
	Code       string
}

// IsExpired reports whether the token is invalid at the given Unix time.
// The expiry predicate is strict: a token expiring exactly at now is invalid.
func (t *Token) IsExpired(now int64) bool {
	return t.ExpiryDate <= now
}

// GenerateTokenInput holds the parameters for issuing a new token.
type GenerateTokenInput struct {
	UserID int64
	// ExpiryDate is an absolute Unix timestamp. Zero means "use the default TTL".
	ExpiryDate int64
	// SetCookie stores the new token in the cookie channel instead of the
	// session channel. Exactly one of the two is populated per issuance.
	SetCookie bool
	// Code is an optional caller-supplied correlation string.
	Code string
}

// PrincipalView is a read-only denormalized projection joining a token with
// the principal and role it resolves to. It is never written back.
type PrincipalView struct {
	UserCode    string `json:"code"`
	UserLevelID int64  `json:"user_level_id"`
	LevelTitle  string `json:"level_title"`
	Token       string `json:"token"`
	UserID      int64  `json:"user_id"`
	ExpiryDate  int64  `json:"expiry_date"`
}
