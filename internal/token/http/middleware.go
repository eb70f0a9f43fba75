package http

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/config"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
	"github.com/allisson/tokengate/internal/session"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
)

// RequireLevel guards a route behind a live token whose owner satisfies the
// role filter. Credentials are read from the header, cookie and session
// channels in priority order.
//
// On success the resolved principal is stored in the request context and can
// be retrieved with GetPrincipal().
//
// Error handling:
//   - No credential presented → 401 Unauthorized
//   - No presented credential resolves to a live token → 401 Unauthorized
//   - A live token exists but its owner fails the role filter → 403 Forbidden
func RequireLevel(
	authenticator tokenUseCase.Authenticator,
	cfg *config.Config,
	sessions session.Store,
	filter tokenDomain.RoleFilter,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		source := NewCredentialSource(c, cfg, sessions)

		tokenStr, err := authenticator.AttemptGetValidToken(ctx, source, filter)
		if err != nil {
			if errors.Is(err, tokenDomain.ErrNoCredential) {
				logger.Debug("authentication failed: no credential presented")
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
				c.Abort()
				return
			}
			if errors.Is(err, tokenDomain.ErrTokenNotFound) {
				// Distinguish a dead token from a live token with the wrong
				// role so role failures surface as 403, not 401.
				if filter.Kind() != tokenDomain.RoleAny {
					if _, anyErr := authenticator.AttemptGetValidToken(ctx, source, tokenDomain.AnyRole()); anyErr == nil {
						logger.Debug("authorization failed: insufficient level")
						httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
						c.Abort()
						return
					}
				}
				logger.Debug("authentication failed: no live token")
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
				c.Abort()
				return
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		principal, err := authenticator.GetUserObj(ctx, source, tokenStr)
		if err != nil {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(ctx, principal))

		logger.Debug("authentication successful",
			slog.Int64("user_id", principal.UserID),
			slog.String("level", principal.LevelTitle),
			slog.String("token_suffix", tokenSuffix(tokenStr)))

		c.Next()
	}
}

// tokenSuffix returns the last few characters of a token for log correlation.
// Full token values never reach the logs.
func tokenSuffix(token string) string {
	const n = 6
	if len(token) <= n {
		return token
	}
	return "..." + token[len(token)-n:]
}
