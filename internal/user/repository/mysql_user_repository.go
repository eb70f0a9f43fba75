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

// MySQLUserRepository handles user persistence for MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user and fills in the generated ID.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (code, username, password, user_level_id)
			  VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Code,
		user.Username,
		user.Password,
		user.UserLevelID,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get last insert id")
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by ID.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, username, password, user_level_id
			  FROM users WHERE id = ?`

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
func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, code, username, password, user_level_id
			  FROM users WHERE username = ?`

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
func (r *MySQLUserRepository) GetLevel(ctx context.Context, levelID int64) (*domain.UserLevel, error) {
	var level domain.UserLevel
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, level_title FROM user_levels WHERE id = ?`

	err := querier.QueryRowContext(ctx, query, levelID).Scan(&level.ID, &level.LevelTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserLevelNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user level")
	}

	return &level, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
