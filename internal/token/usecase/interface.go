// Package usecase defines business logic interfaces for bearer token authentication.
package usecase

import (
	"context"

	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// TokenRepository defines persistence operations for bearer tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token row and fills in the generated ID.
	Create(ctx context.Context, token *tokenDomain.Token) error

	// FindValid retrieves a non-expired token matching the given string whose
	// owner satisfies the role filter. Returns ErrTokenNotFound otherwise.
	FindValid(
		ctx context.Context,
		tokenStr string,
		filter tokenDomain.RoleFilter,
		now int64,
	) (*tokenDomain.Token, error)

	// GetPrincipal retrieves the denormalized principal projection for a
	// non-expired token. Returns ErrTokenNotFound when missing or expired.
	GetPrincipal(ctx context.Context, tokenStr string, now int64) (*tokenDomain.PrincipalView, error)

	// Rotate replaces the token string and expiry of the row holding oldToken.
	// Returns ErrTokenNotFound when no row holds oldToken.
	Rotate(ctx context.Context, oldToken string, newToken string, expiryDate int64) error

	// DeleteByToken removes the row holding the given token string.
	DeleteByToken(ctx context.Context, tokenStr string) error

	// DeleteExpired removes every row expired at the given Unix time.
	DeleteExpired(ctx context.Context, now int64) (int64, error)

	// DeleteByUser removes every token belonging to the given user.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// CountExpired counts the rows expired at the given Unix time.
	CountExpired(ctx context.Context, now int64) (int64, error)
}

// CredentialSource abstracts the presentation channels of a single request:
// the token header, the token cookie and the server-side session. Reads
// return the raw channel value; sanitization happens in the use case.
type CredentialSource interface {
	// Read returns the raw value presented on the given channel, if any.
	Read(ctx context.Context, channel tokenDomain.Channel) (string, bool)

	// Write stores a token on the given channel. The expiry is an absolute
	// Unix time used for cookie and session lifetimes.
	Write(ctx context.Context, channel tokenDomain.Channel, token string, expiryDate int64) error

	// Clear removes any credential from the given channel.
	Clear(ctx context.Context, channel tokenDomain.Channel) error
}

// Authenticator defines the bearer token authentication operations.
type Authenticator interface {
	// GenerateToken issues a fresh token for a user and stores it on exactly
	// one client channel: the cookie channel when input.SetCookie is set, the
	// session channel otherwise. Returns the plain token string.
	GenerateToken(
		ctx context.Context,
		source CredentialSource,
		input *tokenDomain.GenerateTokenInput,
	) (string, error)

	// AttemptGetValidToken resolves the first presented credential that maps
	// to a live token whose owner satisfies the role filter. Channels are
	// consulted in fixed priority order: header, cookie, session. Returns
	// ErrNoCredential when no channel presents a value and ErrTokenNotFound
	// when no presented value resolves.
	AttemptGetValidToken(
		ctx context.Context,
		source CredentialSource,
		filter tokenDomain.RoleFilter,
	) (string, error)

	// GetUserID resolves a credential to the owning user's ID. A non-empty
	// explicitToken is looked up exactly, without consulting the channels;
	// otherwise credentials are discovered from the source in priority order.
	GetUserID(ctx context.Context, source CredentialSource, explicitToken string) (int64, error)

	// GetUserObj resolves a credential to the full principal projection
	// (user code, level and token row fields). A non-empty explicitToken is
	// looked up exactly, without consulting the channels.
	GetUserObj(
		ctx context.Context,
		source CredentialSource,
		explicitToken string,
	) (*tokenDomain.PrincipalView, error)

	// GetUserLevel resolves a credential to the owning user's level title.
	// A non-empty explicitToken is looked up exactly, without consulting the
	// channels.
	GetUserLevel(ctx context.Context, source CredentialSource, explicitToken string) (string, error)

	// RegenerateToken replaces the token string and expiry of an existing row,
	// preserving its identity. A zero newExpiryDate means "now plus the default
	// TTL". Returns ErrTokenNotFound when oldToken does not exist. Concurrent
	// regenerations of the same token race with last-write-wins semantics.
	RegenerateToken(ctx context.Context, oldToken string, newExpiryDate int64) (string, error)

	// Destroy removes every token presented on any channel, clears the
	// channels, and sweeps all expired rows. The sweep runs even when no
	// credential is presented.
	Destroy(ctx context.Context, source CredentialSource) error

	// DeleteOldTokens removes all expired rows and, when userID is non-nil,
	// every row belonging to that user. Returns the number of rows removed.
	DeleteOldTokens(ctx context.Context, userID *int64) (int64, error)

	// CountOldTokens counts the currently expired rows without removing them.
	CountOldTokens(ctx context.Context) (int64, error)
}
