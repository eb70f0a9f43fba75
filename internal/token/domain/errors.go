package domain

import (
	apperrors "github.com/allisson/tokengate/internal/errors"
)

// Domain errors for token operations. Absence of a matching token is a
// control-flow signal callers branch on, not an exceptional condition;
// infrastructure failures are propagated separately and unwrapped.
var (
	// ErrTokenNotFound indicates no stored token satisfied the lookup predicate
	// (missing, expired, or wrong role).
	ErrTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "token not found")

	// ErrNoCredential indicates no presentation channel yielded a candidate token.
	ErrNoCredential = apperrors.Wrap(apperrors.ErrUnauthorized, "no credential presented")
)
