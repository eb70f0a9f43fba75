package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokengate/internal/metrics"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// authenticatorWithMetrics decorates Authenticator with metrics instrumentation.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(authenticator Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    authenticator,
		metrics: m,
	}
}

// record emits operation and duration metrics for a single call.
func (a *authenticatorWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "token", operation, status)
	a.metrics.RecordDuration(ctx, "token", operation, time.Since(start), status)
}

// GenerateToken records metrics for token issuance operations.
func (a *authenticatorWithMetrics) GenerateToken(
	ctx context.Context,
	source CredentialSource,
	input *tokenDomain.GenerateTokenInput,
) (string, error) {
	start := time.Now()
	token, err := a.next.GenerateToken(ctx, source, input)
	a.record(ctx, "generate", start, err)
	return token, err
}

// AttemptGetValidToken records metrics for credential resolution operations.
func (a *authenticatorWithMetrics) AttemptGetValidToken(
	ctx context.Context,
	source CredentialSource,
	filter tokenDomain.RoleFilter,
) (string, error) {
	start := time.Now()
	token, err := a.next.AttemptGetValidToken(ctx, source, filter)
	a.record(ctx, "attempt_get_valid", start, err)
	return token, err
}

// GetUserID records metrics for user ID resolution operations.
func (a *authenticatorWithMetrics) GetUserID(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (int64, error) {
	start := time.Now()
	userID, err := a.next.GetUserID(ctx, source, explicitToken)
	a.record(ctx, "get_user_id", start, err)
	return userID, err
}

// GetUserObj records metrics for principal resolution operations.
func (a *authenticatorWithMetrics) GetUserObj(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (*tokenDomain.PrincipalView, error) {
	start := time.Now()
	principal, err := a.next.GetUserObj(ctx, source, explicitToken)
	a.record(ctx, "get_user_obj", start, err)
	return principal, err
}

// GetUserLevel records metrics for level resolution operations.
func (a *authenticatorWithMetrics) GetUserLevel(
	ctx context.Context,
	source CredentialSource,
	explicitToken string,
) (string, error) {
	start := time.Now()
	level, err := a.next.GetUserLevel(ctx, source, explicitToken)
	a.record(ctx, "get_user_level", start, err)
	return level, err
}

// RegenerateToken records metrics for token rotation operations.
func (a *authenticatorWithMetrics) RegenerateToken(
	ctx context.Context,
	oldToken string,
	newExpiryDate int64,
) (string, error) {
	start := time.Now()
	token, err := a.next.RegenerateToken(ctx, oldToken, newExpiryDate)
	a.record(ctx, "regenerate", start, err)
	return token, err
}

// Destroy records metrics for token destruction operations.
func (a *authenticatorWithMetrics) Destroy(ctx context.Context, source CredentialSource) error {
	start := time.Now()
	err := a.next.Destroy(ctx, source)
	a.record(ctx, "destroy", start, err)
	return err
}

// DeleteOldTokens records metrics for expired token sweep operations.
func (a *authenticatorWithMetrics) DeleteOldTokens(ctx context.Context, userID *int64) (int64, error) {
	start := time.Now()
	count, err := a.next.DeleteOldTokens(ctx, userID)
	a.record(ctx, "delete_old", start, err)
	return count, err
}

// CountOldTokens records metrics for expired token count operations.
func (a *authenticatorWithMetrics) CountOldTokens(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := a.next.CountOldTokens(ctx)
	a.record(ctx, "count_old", start, err)
	return count, err
}
