package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser stores a new account. Emails are unique without regard to case.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "user" (id, email, username, password_hash, is_active, is_staff, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.IsActive,
		u.IsStaff,
		formatTimestamp(u.CreatedAt),
		formatTimestamp(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", apperrors.ErrDuplicateEntry, u.Email)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// EmailExists reports whether an account already uses this email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM "user" WHERE lower(email) = lower(?))`, strings.TrimSpace(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// GetUserByEmail returns apperrors.ErrUserNotFound if no account matches.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, `WHERE lower(email) = lower(?)`, strings.TrimSpace(email))
}

// GetUserByID returns apperrors.ErrUserNotFound if no account matches.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u                    model.User
		username             sql.NullString
		createdAt, updatedAt string
	)
	//#nosec G202 -- Safe: where clause is a constant chosen by the caller, not user input
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, is_active, is_staff, created_at, updated_at
		FROM "user" `+where, arg).Scan(
		&u.ID,
		&u.Email,
		&username,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user table: %w", err)
	}

	u.Username = username.String
	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}
