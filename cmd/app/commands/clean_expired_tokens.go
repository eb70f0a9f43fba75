package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
)

// RunCleanExpiredTokens deletes expired tokens. When userID is non-zero,
// every token of that user is removed as well, expired or not. Supports
// dry-run mode to preview the expired row count and both text/JSON output
// formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	authenticator tokenUseCase.Authenticator,
	logger *slog.Logger,
	w io.Writer,
	userID int64,
	dryRun bool,
	format string,
) error {
	if userID < 0 {
		return fmt.Errorf("user-id must be a positive number, got: %d", userID)
	}

	logger.Info("cleaning expired tokens",
		slog.Int64("user_id", userID),
		slog.Bool("dry_run", dryRun),
	)

	var count int64
	var err error

	if dryRun {
		// Dry run only reports expired rows; per-user deletion depends on
		// live rows and is not previewed.
		count, err = authenticator.CountOldTokens(ctx)
	} else {
		var userFilter *int64
		if userID > 0 {
			userFilter = &userID
		}
		count, err = authenticator.DeleteOldTokens(ctx, userFilter)
	}
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(w, count, userID, dryRun)
	} else {
		outputCleanExpiredText(w, count, userID, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int64("user_id", userID),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(w io.Writer, count int64, userID int64, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(w, "Dry-run mode: Would delete %d expired token(s)\n", count)
		return
	}

	if userID > 0 {
		_, _ = fmt.Fprintf(w, "Successfully deleted %d token(s) (expired rows plus all tokens of user %d)\n",
			count, userID)
	} else {
		_, _ = fmt.Fprintf(w, "Successfully deleted %d expired token(s)\n", count)
	}
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(w io.Writer, count int64, userID int64, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}
	if userID > 0 {
		result["user_id"] = userID
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(jsonBytes))
}
