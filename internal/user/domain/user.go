// Package domain defines the core user domain entities and types.
package domain

import (
	apperrors "github.com/allisson/tokengate/internal/errors"
)

// User is an authenticatable principal. Password holds the Argon2id hash,
// never the plain text. Code is an opaque per-user correlation string.
type User struct {
	ID          int64
	Code        string
	Username    string
	Password    string
	UserLevelID int64
}

// UserLevel is a named role referenced by users.
type UserLevel struct {
	ID         int64
	LevelTitle string
}

// CreateUserInput contains the input data for creating a user.
type CreateUserInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	UserLevelID int64  `json:"user_level_id"`
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")

	// ErrUserLevelNotFound indicates the requested user level does not exist.
	ErrUserLevelNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user level not found")

	// ErrUserAlreadyExists indicates a user with the same username already exists.
	ErrUserAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the username or password did not match.
	// A single error covers both cases to prevent username enumeration.
	ErrInvalidCredentials = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
)
