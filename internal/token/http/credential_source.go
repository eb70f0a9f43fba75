// Package http provides HTTP handlers and middleware for bearer token authentication.
package http

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/tokengate/internal/config"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/session"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
)

// ginCredentialSource adapts a gin request to the CredentialSource interface.
// The header and cookie channels live on the request itself; the session
// channel is a server-side store keyed by an opaque session-id cookie.
//
// Writes target the response (Set-Cookie, session store), so a token stored
// during this request would not be visible on the request until the client
// echoes it back. The writes map keeps same-request writes readable: a token
// issued by login can be resolved by the very next call on the same source.
type ginCredentialSource struct {
	c        *gin.Context
	cfg      *config.Config
	sessions session.Store
	writes   map[tokenDomain.Channel]string
}

// NewCredentialSource creates a CredentialSource backed by the given request.
func NewCredentialSource(c *gin.Context, cfg *config.Config, sessions session.Store) tokenUseCase.CredentialSource {
	return &ginCredentialSource{
		c:        c,
		cfg:      cfg,
		sessions: sessions,
		writes:   make(map[tokenDomain.Channel]string),
	}
}

// Read returns the raw value presented on the given channel, if any.
// Same-request writes shadow the client-presented value.
func (g *ginCredentialSource) Read(ctx context.Context, channel tokenDomain.Channel) (string, bool) {
	if value, ok := g.writes[channel]; ok {
		return value, true
	}

	switch channel {
	case tokenDomain.HeaderChannel:
		value := g.c.GetHeader(g.cfg.TokenHeaderName)
		return value, value != ""
	case tokenDomain.CookieChannel:
		value, err := g.c.Cookie(g.cfg.TokenCookieName)
		if err != nil || value == "" {
			return "", false
		}
		return value, true
	case tokenDomain.SessionChannel:
		sessionID, err := g.c.Cookie(g.cfg.SessionCookieName)
		if err != nil || sessionID == "" {
			return "", false
		}
		value, err := g.sessions.Get(ctx, sessionID)
		if err != nil {
			return "", false
		}
		return value, true
	}
	return "", false
}

// Write stores a token on the given channel. Writing to the header channel is
// not possible: request headers belong to the client.
func (g *ginCredentialSource) Write(
	ctx context.Context,
	channel tokenDomain.Channel,
	token string,
	expiryDate int64,
) error {
	maxAge := int(expiryDate - time.Now().Unix())
	if maxAge < 0 {
		maxAge = 0
	}

	switch channel {
	case tokenDomain.CookieChannel:
		g.c.SetCookie(g.cfg.TokenCookieName, token, maxAge, "/", "", g.cfg.CookieSecure, true)
		g.writes[channel] = token
		return nil
	case tokenDomain.SessionChannel:
		sessionID := uuid.NewString()
		ttl := time.Duration(maxAge) * time.Second
		if err := g.sessions.Set(ctx, sessionID, token, ttl); err != nil {
			return err
		}
		g.c.SetCookie(g.cfg.SessionCookieName, sessionID, maxAge, "/", "", g.cfg.CookieSecure, true)
		g.writes[channel] = token
		return nil
	}
	return apperrors.New("cannot write to channel " + string(channel))
}

// Clear removes any credential from the given channel. The header channel is
// client state and clearing it is a no-op.
func (g *ginCredentialSource) Clear(ctx context.Context, channel tokenDomain.Channel) error {
	delete(g.writes, channel)

	switch channel {
	case tokenDomain.HeaderChannel:
		return nil
	case tokenDomain.CookieChannel:
		g.c.SetCookie(g.cfg.TokenCookieName, "", -1, "/", "", g.cfg.CookieSecure, true)
		return nil
	case tokenDomain.SessionChannel:
		sessionID, err := g.c.Cookie(g.cfg.SessionCookieName)
		if err == nil && sessionID != "" {
			if err := g.sessions.Delete(ctx, sessionID); err != nil &&
				!errors.Is(err, session.ErrSessionNotFound) {
				return err
			}
		}
		g.c.SetCookie(g.cfg.SessionCookieName, "", -1, "/", "", g.cfg.CookieSecure, true)
		return nil
	}
	return nil
}
