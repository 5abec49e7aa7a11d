package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wikitok/backend/models"
)

const userColumns = `id, email, username, token_hash, created_at`

type UserRepository struct {
	db *sql.DB // The actual database connection pool
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetFirstUser returns the earliest-created user.
func (r *UserRepository) GetFirstUser(ctx context.Context) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC LIMIT 1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get first user: %w", err)
	}
	return user, nil
}

// GetUserByTokenHash retrieves the user owning an API token hash.
func (r *UserRepository) GetUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	if tokenHash == "" {
		return nil, ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE token_hash = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return user, nil
}

// SeedDemoUser makes sure at least one user exists. When the users table is
// empty a demo account is created; otherwise the first user is returned.
// A non-empty tokenHash is stored on the returned user.
func (r *UserRepository) SeedDemoUser(ctx context.Context, email, username, tokenHash string) (*models.User, bool, error) {
	var (
		user    *models.User
		created bool
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		first := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC LIMIT 1`
		existing, err := scanUser(tx.QueryRowContext(ctx, first))
		switch {
		case err == nil:
			user = existing
		case errors.Is(err, sql.ErrNoRows):
			user = &models.User{
				ID:        uuid.NewString(),
				Email:     email,
				Username:  username,
				CreatedAt: time.Now().UTC(),
			}
			insert := `
				INSERT INTO users (id, email, username, created_at)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, insert, user.ID, user.Email, user.Username, user.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert demo user: %w", err)
			}
			created = true
		default:
			return fmt.Errorf("failed to look up first user: %w", err)
		}

		if tokenHash != "" && user.TokenHash != tokenHash {
			update := `UPDATE users SET token_hash = $1 WHERE id = $2`
			if _, err := tx.ExecContext(ctx, update, tokenHash, user.ID); err != nil {
				return fmt.Errorf("failed to store demo user token: %w", err)
			}
			user.TokenHash = tokenHash
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user      models.User
		tokenHash sql.NullString
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &tokenHash, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.TokenHash = tokenHash.String
	return &user, nil
}
