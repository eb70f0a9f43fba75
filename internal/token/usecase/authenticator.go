package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenService "github.com/allisson/tokengate/internal/token/service"
)

// authenticator implements Authenticator on top of a token repository and a
// per-request credential source.
type authenticator struct {
	cfg       *config.Config
	txManager database.TxManager
	tokenRepo TokenRepository
	generator tokenService.TokenGenerator

	// now is injectable for deterministic expiry tests.
	now func() int64
}

// presentedCredential pairs a sanitized channel value with its channel.
type presentedCredential struct {
	channel tokenDomain.Channel
	value   string
}

// presented collects the sanitized credentials of the request in channel
// priority order. Blank values and values reduced to nothing by sanitization
// are dropped.
func (a *authenticator) presented(ctx context.Context, source CredentialSource) []presentedCredential {
	var out []presentedCredential
	for _, channel := range tokenDomain.ChannelPriority {
		raw, ok := source.Read(ctx, channel)
		if !ok {
			continue
		}
		value := tokenService.SanitizeCredential(raw)
		if value == "" {
			continue
		}
		out = append(out, presentedCredential{channel: channel, value: value})
	}
	return out
}

// GenerateToken issues a fresh token for a user and stores it on exactly one
// client channel.
func (a *authenticator) GenerateToken(
	ctx context.Context,
	source CredentialSource,
	input *tokenDomain.GenerateTokenInput,
) (string, error) {
	now := a.now()

	if input.UserID <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "user_id must be positive")
	}
	if input.ExpiryDate != 0 && input.ExpiryDate <= now {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "expiry_date must be in the future")
	}

	expiryDate := input.ExpiryDate
	if expiryDate == 0 {
		expiryDate = now + int64(a.cfg.TokenExpiration/time.Second)
	}

	tokenStr, err := a.generator.GenerateToken(a.cfg.TokenLength)
	if err != nil {
		return "", err
	}

	token := &tokenDomain.Token{
		Token:      tokenStr,
		UserID:     input.UserID,
		ExpiryDate: expiryDate,
		Code:       input.Code,
	}
	if err := a.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	channel := tokenDomain.SessionChannel
	if input.SetCookie {
		channel = tokenDomain.CookieChannel
	}
	if err := source.Write(ctx, channel, tokenStr, expiryDate); err != nil {
		return "", apperrors.Wrap(err, "failed to store token on channel")
	}

	return tokenStr, nil
}

// AttemptGetValidToken resolves the first presented credential that maps to a
// live token satisfying the role filter.
func (a *authenticator) AttemptGetValidToken(
	ctx context.Context,
	source CredentialSource,
	filter tokenDomain.RoleFilter,
) (string, error) {
	candidates := a.presented(ctx, source)
	if len(candidates) == 0 {
		return "", tokenDomain.ErrNoCredential
	}

	now := a.now()
	for _, candidate := range candidates {
		token, err := a.tokenRepo.FindValid(ctx, candidate.value, filter, now)
		if err != nil {
			if errors.Is(err, tokenDomain.ErrTokenNotFound) {
				continue
			}
			return "", err
		}
		return token.Token, nil
	}

	return "", tokenDomain.ErrTokenNotFound
}

// GetUserID resolves a credential to the owning user's ID. A non-empty
// explicitToken is looked up exactly and the channels are not consulted.
func (a *authenticator) GetUserID(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (int64, error) {
	now := a.now()

	if explicitToken != "" {
		sanitized := tokenService.SanitizeCredential(explicitToken)
		if sanitized == "" {
			return 0, tokenDomain.ErrTokenNotFound
		}
		token, err := a.tokenRepo.FindValid(ctx, sanitized, tokenDomain.AnyRole(), now)
		if err != nil {
			return 0, err
		}
		return token.UserID, nil
	}

	candidates := a.presented(ctx, source)
	if len(candidates) == 0 {
		return 0, tokenDomain.ErrNoCredential
	}

	for _, candidate := range candidates {
		token, err := a.tokenRepo.FindValid(ctx, candidate.value, tokenDomain.AnyRole(), now)
		if err != nil {
			if errors.Is(err, tokenDomain.ErrTokenNotFound) {
				continue
			}
			return 0, err
		}
		return token.UserID, nil
	}

	return 0, tokenDomain.ErrTokenNotFound
}

// GetUserObj resolves a credential to the full principal projection. A
// non-empty explicitToken is looked up exactly and the channels are not
// consulted.
func (a *authenticator) GetUserObj(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (*tokenDomain.PrincipalView, error) {
	now := a.now()

	if explicitToken != "" {
		sanitized := tokenService.SanitizeCredential(explicitToken)
		if sanitized == "" {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return a.tokenRepo.GetPrincipal(ctx, sanitized, now)
	}

	candidates := a.presented(ctx, source)
	if len(candidates) == 0 {
		return nil, tokenDomain.ErrNoCredential
	}

	for _, candidate := range candidates {
		principal, err := a.tokenRepo.GetPrincipal(ctx, candidate.value, now)
		if err != nil {
			if errors.Is(err, tokenDomain.ErrTokenNotFound) {
				continue
			}
			return nil, err
		}
		return principal, nil
	}

	return nil, tokenDomain.ErrTokenNotFound
}

// GetUserLevel resolves a credential to the owning user's level title.
func (a *authenticator) GetUserLevel(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (string, error) {
	principal, err := a.GetUserObj(ctx, source, explicitToken)
	if err != nil {
		return "", err
	}
	return principal.LevelTitle, nil
}

// RegenerateToken replaces the token string and expiry of an existing row.
// There is no optimistic locking: concurrent regenerations of the same token
// race and the last update wins.
func (a *authenticator) RegenerateToken(
	ctx context.Context,
	oldToken string,
	newExpiryDate int64,
) (string, error) {
	now := a.now()

	sanitized := tokenService.SanitizeCredential(oldToken)
	if sanitized == "" {
		return "", tokenDomain.ErrTokenNotFound
	}
	if newExpiryDate != 0 && newExpiryDate <= now {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "expiry_date must be in the future")
	}
	if newExpiryDate == 0 {
		newExpiryDate = now + int64(a.cfg.TokenExpiration/time.Second)
	}

	newToken, err := a.generator.GenerateToken(a.cfg.TokenLength)
	if err != nil {
		return "", err
	}

	if err := a.tokenRepo.Rotate(ctx, sanitized, newToken, newExpiryDate); err != nil {
		return "", err
	}

	return newToken, nil
}

// Destroy removes every presented token, clears the client channels, and
// sweeps all expired rows. The sweep runs unconditionally so repeated calls
// keep the store tidy even without a credential.
func (a *authenticator) Destroy(ctx context.Context, source CredentialSource) error {
	candidates := a.presented(ctx, source)
	now := a.now()

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, candidate := range candidates {
			if err := a.tokenRepo.DeleteByToken(ctx, candidate.value); err != nil {
				return err
			}
		}
		if _, err := a.tokenRepo.DeleteExpired(ctx, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Client state is cleared after the rows are gone; the header channel
	// cannot be cleared and its adapter treats this as a no-op.
	for _, channel := range tokenDomain.ChannelPriority {
		if err := source.Clear(ctx, channel); err != nil {
			return apperrors.Wrap(err, "failed to clear channel")
		}
	}

	return nil
}

// DeleteOldTokens removes all expired rows and, when userID is non-nil, every
// row belonging to that user.
func (a *authenticator) DeleteOldTokens(ctx context.Context, userID *int64) (int64, error) {
	now := a.now()

	var total int64
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		deleted, err := a.tokenRepo.DeleteExpired(ctx, now)
		if err != nil {
			return err
		}
		total += deleted

		if userID != nil {
			deleted, err := a.tokenRepo.DeleteByUser(ctx, *userID)
			if err != nil {
				return err
			}
			total += deleted
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

// CountOldTokens counts the currently expired rows without removing them.
func (a *authenticator) CountOldTokens(ctx context.Context) (int64, error) {
	return a.tokenRepo.CountExpired(ctx, a.now())
}

// NewAuthenticator creates a new Authenticator with the provided dependencies.
func NewAuthenticator(
	cfg *config.Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	generator tokenService.TokenGenerator,
) Authenticator {
	return &authenticator{
		cfg:       cfg,
		txManager: txManager,
		tokenRepo: tokenRepo,
		generator: generator,
		now:       func() int64 { return time.Now().Unix() },
	}
}
