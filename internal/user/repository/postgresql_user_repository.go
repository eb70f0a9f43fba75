// Package repository provides PostgreSQL and MySQL persistence for users and levels.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/user/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user and fills in the generated ID.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (code, username, password, user_level_id)
			  VALUES ($1, $2, $3, $4) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		user.Code,
		user.Username,
		user.Password,
		user.UserLevelID,
	).Scan(&user.ID)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, username, password, user_level_id
			  FROM users WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Code, &user.Username, &user.Password, &user.UserLevelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}

	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, username, password, user_level_id
			  FROM users WHERE username = $1`

	err := querier.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Code, &user.Username, &user.Password, &user.UserLevelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by username")
	}

	return &user, nil
}

// GetLevel retrieves a user level by ID.
func (r *PostgreSQLUserRepository) GetLevel(ctx context.Context, levelID int64) (*domain.UserLevel, error) {
	var level domain.UserLevel
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, level_title FROM user_levels WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, levelID).Scan(&level.ID, &level.LevelTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserLevelNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user level")
	}

	return &level, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
