package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userDomain "github.com/allisson/tokengate/internal/user/domain"
	userUseCase "github.com/allisson/tokengate/internal/user/usecase"
)

// RunCreateUser creates a new user account with a hashed password.
// Outputs the created user in either text or JSON format. The password is
// never echoed back.
//
// Requirements: Database must be migrated and accessible, and the target
// user level must exist.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	w io.Writer,
	username string,
	password string,
	userLevelID int64,
	format string,
) error {
	logger.Info("creating new user",
		slog.String("username", username),
		slog.Int64("user_level_id", userLevelID),
	)

	user, err := users.CreateUser(ctx, userDomain.CreateUserInput{
		Username:    username,
		Password:    password,
		UserLevelID: userLevelID,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputCreateUserJSON(w, user)
	} else {
		outputCreateUserText(w, user)
	}

	logger.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(w io.Writer, user *userDomain.User) {
	_, _ = fmt.Fprintf(w, "User created successfully\n")
	_, _ = fmt.Fprintf(w, "  ID:            %d\n", user.ID)
	_, _ = fmt.Fprintf(w, "  Username:      %s\n", user.Username)
	_, _ = fmt.Fprintf(w, "  Code:          %s\n", user.Code)
	_, _ = fmt.Fprintf(w, "  User level ID: %d\n", user.UserLevelID)
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(w io.Writer, user *userDomain.User) {
	result := map[string]interface{}{
		"id":            user.ID,
		"username":      user.Username,
		"code":          user.Code,
		"user_level_id": user.UserLevelID,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(w, string(jsonBytes))
}
