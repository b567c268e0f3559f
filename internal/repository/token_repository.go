package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenRepository stores revoked access tokens in the blacklisted_token table.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository with the provided database connection.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Add blacklists a token until expiresAt. Blacklisting the same token twice is not an error.
func (r *TokenRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blacklisted_token (id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, uuid.New().String(), token, formatTimestamp(time.Now()), formatTimestamp(expiresAt))
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Contains reports whether the token has been blacklisted.
func (r *TokenRepository) Contains(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM blacklisted_token WHERE token = ?)`, token,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklisted token: %w", err)
	}
	return exists, nil
}

// DeleteExpired removes entries whose token expired before now.
// Returns the number of rows removed.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM blacklisted_token WHERE expires_at IS NOT NULL AND expires_at < ?`, formatTimestamp(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}
