package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/tokengate/internal/database"
	apperrors "github.com/allisson/tokengate/internal/errors"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
)

// MySQLTokenRepository implements token persistence for MySQL.
// Uses ? placeholders and LastInsertId with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token row and fills in the generated ID. Uses transaction
// support via database.GetTx(). Returns an error if database insertion fails.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (token, user_id, expiry_date, code)
			  VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		token.Token,
		token.UserID,
		token.ExpiryDate,
		token.Code,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get last insert id")
	}
	token.ID = id

	return nil
}

// FindValid retrieves the token row matching the given token string, provided it
// has not expired at the given Unix time and its owner satisfies the role filter.
// Expiry is strict: a row whose expiry_date equals now does not match.
// Returns ErrTokenNotFound when no row satisfies the predicate.
func (m *MySQLTokenRepository) FindValid(
	ctx context.Context,
	tokenStr string,
	filter tokenDomain.RoleFilter,
	now int64,
) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT t.id, t.token, t.user_id, t.expiry_date, t.code
			  FROM tokens t
			  WHERE t.token = ? AND t.expiry_date > ?`
	args := []any{tokenStr, now}

	if filter.Kind() != tokenDomain.RoleAny {
		levels := filter.Levels()
		placeholders := make([]string, len(levels))
		for i, level := range levels {
			args = append(args, level)
			placeholders[i] = "?"
		}
		query = `SELECT t.id, t.token, t.user_id, t.expiry_date, t.code
			  FROM tokens t
			  INNER JOIN users u ON u.id = t.user_id
			  WHERE t.token = ? AND t.expiry_date > ?
			  AND u.user_level_id IN (` + strings.Join(placeholders, ", ") + `)`
	}

	var token tokenDomain.Token

	err := querier.QueryRowContext(ctx, query, args...).Scan(
		&token.ID,
		&token.Token,
		&token.UserID,
		&token.ExpiryDate,
		&token.Code,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to find valid token")
	}

	return &token, nil
}

// GetPrincipal retrieves the denormalized principal projection for a non-expired
// token, joining the owning user and its level. Returns ErrTokenNotFound when
// the token is missing or expired at the given Unix time.
func (m *MySQLTokenRepository) GetPrincipal(
	ctx context.Context,
	tokenStr string,
	now int64,
) (*tokenDomain.PrincipalView, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT u.code, u.user_level_id, ul.level_title, t.token, t.user_id, t.expiry_date
			  FROM tokens t
			  INNER JOIN users u ON u.id = t.user_id
			  INNER JOIN user_levels ul ON ul.id = u.user_level_id
			  WHERE t.token = ? AND t.expiry_date > ?`

	var principal tokenDomain.PrincipalView

	err := querier.QueryRowContext(ctx, query, tokenStr, now).Scan(
		&principal.UserCode,
		&principal.UserLevelID,
		&principal.LevelTitle,
		&principal.Token,
		&principal.UserID,
		&principal.ExpiryDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get principal")
	}

	return &principal, nil
}

// Rotate replaces the token string and expiry of the row currently holding
// oldToken. The row identity (id, user_id, code) is preserved. Returns
// ErrTokenNotFound when no row holds oldToken.
func (m *MySQLTokenRepository) Rotate(
	ctx context.Context,
	oldToken string,
	newToken string,
	expiryDate int64,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens SET token = ?, expiry_date = ? WHERE token = ?`

	result, err := querier.ExecContext(ctx, query, newToken, expiryDate, oldToken)
	if err != nil {
		return apperrors.Wrap(err, "failed to rotate token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return tokenDomain.ErrTokenNotFound
	}

	return nil
}

// DeleteByToken removes the row holding the given token string. Deleting a
// token that does not exist is not an error.
func (m *MySQLTokenRepository) DeleteByToken(ctx context.Context, tokenStr string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE token = ?`

	if _, err := querier.ExecContext(ctx, query, tokenStr); err != nil {
		return apperrors.Wrap(err, "failed to delete token")
	}
	return nil
}

// DeleteExpired removes every row whose expiry_date is strictly before the
// given Unix time and returns the number of rows removed. A row expiring
// exactly at now no longer resolves but is swept on the next pass.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE expiry_date < ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows, nil
}

// DeleteByUser removes every token belonging to the given user and returns the
// number of rows removed.
func (m *MySQLTokenRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM tokens WHERE user_id = ?`

	result, err := querier.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete user tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rows, nil
}

// CountExpired counts the rows whose expiry_date is strictly before the given
// Unix time without removing them. Uses the same predicate as DeleteExpired
// so dry-run counts match what a sweep would remove.
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, now int64) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM tokens WHERE expiry_date < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
