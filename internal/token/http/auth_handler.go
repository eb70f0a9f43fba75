package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/httputil"
	"github.com/allisson/tokengate/internal/session"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	"github.com/allisson/tokengate/internal/token/http/dto"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
	userUseCase "github.com/allisson/tokengate/internal/user/usecase"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// AuthHandler handles HTTP requests for password authentication and the
// authenticated principal.
type AuthHandler struct {
	users         userUseCase.UseCase
	authenticator tokenUseCase.Authenticator
	cfg           *config.Config
	sessions      session.Store
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	users userUseCase.UseCase,
	authenticator tokenUseCase.Authenticator,
	cfg *config.Config,
	sessions session.Store,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		authenticator: authenticator,
		cfg:           cfg,
		sessions:      sessions,
		logger:        logger,
	}
}

// LoginHandler authenticates a username/password pair and issues a token.
// POST /v1/auth/login - No authentication required.
// The token is stored in a cookie when "remember" is set and in the
// server-side session otherwise. Returns 201 Created with the token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.users.VerifyCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	source := NewCredentialSource(c, h.cfg, h.sessions)
	token, err := h.authenticator.GenerateToken(c.Request.Context(), source, &tokenDomain.GenerateTokenInput{
		UserID:    user.ID,
		SetCookie: req.Remember,
		Code:      user.Code,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	principal, err := h.authenticator.GetUserObj(c.Request.Context(), source, token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.LoginResponse{
		Token:      token,
		ExpiryDate: principal.ExpiryDate,
	})
}

// LogoutHandler destroys the presented tokens and clears the client channels.
// POST /v1/auth/logout - Works with or without a live credential; expired
// rows are swept either way. Returns 204 No Content.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	source := NewCredentialSource(c, h.cfg, h.sessions)

	if err := h.authenticator.Destroy(c.Request.Context(), source); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler returns the principal resolved by the RequireLevel middleware.
// GET /v1/auth/me - Requires a live token on any channel.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		// RequireLevel did not run; treat as unauthenticated.
		httputil.HandleErrorGin(c, tokenDomain.ErrNoCredential, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToResponse(principal))
}
