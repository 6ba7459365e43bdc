package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ndavydov/gotodo/internal/models"
)

// ErrDuplicateEmail is returned by Insert when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// uniqueViolation is the PostgreSQL error code for unique-index violations.
const uniqueViolation = "23505"

// PostgresUserRepository implements user and session persistence against a
// PostgreSQL database. Sessions live in the user_tokens table, one row per
// active login.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Insert persists a new user record. Returns ErrDuplicateEmail when a user
// with the same email already exists.
func (r *PostgresUserRepository) Insert(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
	`, user.ID, user.Email, user.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by email. Returns sql.ErrNoRows when no user
// with that email exists.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id. Returns sql.ErrNoRows when no user with that
// id exists.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AppendToken records a new active session for the user.
func (r *PostgresUserRepository) AppendToken(ctx context.Context, userID string, t models.SessionToken) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_tokens (user_id, access, token) VALUES ($1, $2, $3)
	`, userID, t.Access, t.Token)
	if err != nil {
		return fmt.Errorf("append token: %w", err)
	}
	return nil
}

// RemoveToken deletes the matching session row. Removing a session that does
// not exist is not an error.
func (r *PostgresUserRepository) RemoveToken(ctx context.Context, userID string, t models.SessionToken) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_tokens WHERE user_id = $1 AND access = $2 AND token = $3
	`, userID, t.Access, t.Token)
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// HasToken returns true if the exact session row is currently live for the user.
func (r *PostgresUserRepository) HasToken(ctx context.Context, userID string, t models.SessionToken) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id = $1 AND access = $2 AND token = $3)
	`, userID, t.Access, t.Token).Scan(&exists)
	return exists, err
}
