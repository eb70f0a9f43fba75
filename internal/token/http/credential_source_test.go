package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/session"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		TokenHeaderName:   "Tokengate-Token",
		TokenCookieName:   "tokengate_token",
		SessionCookieName: "tokengate_session",
		TokenLength:       tokenDomain.TokenLength,
		TokenExpiration:   24 * time.Hour,
	}
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	c.Request = req
	return c, recorder
}

func TestGinCredentialSource_Read(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("HeaderChannel", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(cfg.TokenHeaderName, "headertokenvalue")

		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		value, ok := source.Read(ctx, tokenDomain.HeaderChannel)
		assert.True(t, ok)
		assert.Equal(t, "headertokenvalue", value)
	})

	t.Run("HeaderChannelAbsent", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		_, ok := source.Read(ctx, tokenDomain.HeaderChannel)
		assert.False(t, ok)
	})

	t.Run("CookieChannel", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.AddCookie(&http.Cookie{Name: cfg.TokenCookieName, Value: "cookietokenvalue"})

		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		value, ok := source.Read(ctx, tokenDomain.CookieChannel)
		assert.True(t, ok)
		assert.Equal(t, "cookietokenvalue", value)
	})

	t.Run("SessionChannel", func(t *testing.T) {
		sessions := session.NewMemoryStore()
		require.NoError(t, sessions.Set(ctx, "session-id-1", "sessiontokenvalue", time.Hour))

		c, _ := newTestContext(t)
		c.Request.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "session-id-1"})

		source := NewCredentialSource(c, cfg, sessions)

		value, ok := source.Read(ctx, tokenDomain.SessionChannel)
		assert.True(t, ok)
		assert.Equal(t, "sessiontokenvalue", value)
	})

	t.Run("SessionChannelUnknownSessionID", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "unknown-session"})

		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		_, ok := source.Read(ctx, tokenDomain.SessionChannel)
		assert.False(t, ok)
	})
}

func TestGinCredentialSource_Write(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	expiry := time.Now().Unix() + 3600

	t.Run("CookieChannel", func(t *testing.T) {
		c, recorder := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		err := source.Write(ctx, tokenDomain.CookieChannel, "newtokenvalue", expiry)
		require.NoError(t, err)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.TokenCookieName, cookies[0].Name)
		assert.Equal(t, "newtokenvalue", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Positive(t, cookies[0].MaxAge)
	})

	t.Run("SessionChannelStoresTokenServerSide", func(t *testing.T) {
		sessions := session.NewMemoryStore()
		c, recorder := newTestContext(t)
		source := NewCredentialSource(c, cfg, sessions)

		err := source.Write(ctx, tokenDomain.SessionChannel, "newtokenvalue", expiry)
		require.NoError(t, err)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.SessionCookieName, cookies[0].Name)
		// The cookie holds an opaque session ID, never the token.
		assert.NotEqual(t, "newtokenvalue", cookies[0].Value)

		stored, err := sessions.Get(ctx, cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, "newtokenvalue", stored)
	})

	t.Run("HeaderChannelIsRejected", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		err := source.Write(ctx, tokenDomain.HeaderChannel, "token", expiry)
		assert.Error(t, err)
	})

	// Writes target the response, but the value must be readable on the same
	// request so a freshly issued token can be resolved before the client
	// echoes it back.
	t.Run("SessionWriteIsReadableOnSameRequest", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		require.NoError(t, source.Write(ctx, tokenDomain.SessionChannel, "newtokenvalue", expiry))

		value, ok := source.Read(ctx, tokenDomain.SessionChannel)
		assert.True(t, ok)
		assert.Equal(t, "newtokenvalue", value)
	})

	t.Run("CookieWriteIsReadableOnSameRequest", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		require.NoError(t, source.Write(ctx, tokenDomain.CookieChannel, "newtokenvalue", expiry))

		value, ok := source.Read(ctx, tokenDomain.CookieChannel)
		assert.True(t, ok)
		assert.Equal(t, "newtokenvalue", value)
	})

	t.Run("ClearDropsSameRequestWrite", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		require.NoError(t, source.Write(ctx, tokenDomain.CookieChannel, "newtokenvalue", expiry))
		require.NoError(t, source.Clear(ctx, tokenDomain.CookieChannel))

		_, ok := source.Read(ctx, tokenDomain.CookieChannel)
		assert.False(t, ok)
	})
}

func TestGinCredentialSource_Clear(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	t.Run("CookieChannel", func(t *testing.T) {
		c, recorder := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		err := source.Clear(ctx, tokenDomain.CookieChannel)
		require.NoError(t, err)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cfg.TokenCookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("SessionChannelRemovesServerState", func(t *testing.T) {
		sessions := session.NewMemoryStore()
		require.NoError(t, sessions.Set(ctx, "session-id-1", "sessiontokenvalue", time.Hour))

		c, _ := newTestContext(t)
		c.Request.AddCookie(&http.Cookie{Name: cfg.SessionCookieName, Value: "session-id-1"})
		source := NewCredentialSource(c, cfg, sessions)

		err := source.Clear(ctx, tokenDomain.SessionChannel)
		require.NoError(t, err)

		_, err = sessions.Get(ctx, "session-id-1")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("HeaderChannelIsNoOp", func(t *testing.T) {
		c, _ := newTestContext(t)
		source := NewCredentialSource(c, cfg, session.NewMemoryStore())

		assert.NoError(t, source.Clear(ctx, tokenDomain.HeaderChannel))
	})
}
