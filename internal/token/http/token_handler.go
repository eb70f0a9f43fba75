package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/httputil"
	"github.com/allisson/tokengate/internal/token/http/dto"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// TokenHandler handles HTTP requests for token rotation and the
// administrative sweep.
type TokenHandler struct {
	authenticator tokenUseCase.Authenticator
	logger        *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(authenticator tokenUseCase.Authenticator, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RegenerateTokenHandler rotates an existing token to a fresh string.
// POST /v1/tokens/regenerate - The caller supplies the current token string;
// possession is the credential. Returns 200 OK with the replacement token,
// or 404 when the supplied token does not exist.
func (h *TokenHandler) RegenerateTokenHandler(c *gin.Context) {
	var req dto.RegenerateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, err := h.authenticator.RegenerateToken(c.Request.Context(), req.Token, req.ExpiryDate)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RegenerateTokenResponse{Token: token})
}

// SweepTokensHandler removes expired tokens, and optionally every token of a
// given user. POST /v1/admin/tokens/sweep - Requires the administrative level
// via RequireLevel. With dry_run the handler only reports the count of
// expired rows. Returns 200 OK with the number of affected rows.
func (h *TokenHandler) SweepTokensHandler(c *gin.Context) {
	var req dto.SweepTokensRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if req.DryRun {
		count, err := h.authenticator.CountOldTokens(c.Request.Context())
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.SweepTokensResponse{Deleted: count, DryRun: true})
		return
	}

	deleted, err := h.authenticator.DeleteOldTokens(c.Request.Context(), req.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("token sweep completed", slog.Int64("deleted", deleted))

	c.JSON(http.StatusOK, dto.SweepTokensResponse{Deleted: deleted})
}
