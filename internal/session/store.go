// Package session provides the server-side session store used as the
// session presentation channel for bearer tokens. A session row maps an
// opaque session identifier (carried in a cookie) to the token string it
// holds, with a TTL matching the token expiry.
package session

import (
	"context"
	"time"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

// ErrSessionNotFound indicates the session identifier has no stored token.
var ErrSessionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "session not found")

// Store defines the operations for the session-channel token store.
type Store interface {
	// Get returns the token stored under the session identifier.
	// Returns ErrSessionNotFound if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (string, error)

	// Set stores the token under the session identifier with the given TTL.
	Set(ctx context.Context, sessionID string, token string, ttl time.Duration) error

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
