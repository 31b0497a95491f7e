package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles persistence for user profiles.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateIfAbsent inserts u unless a user with the same email exists.
// It reports whether a row was inserted.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, u *model.User) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO users (email, name, photo_url, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO NOTHING`,
		u.Email, u.Name, u.PhotoURL, u.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT email, name, photo_url, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.Email, &u.Name, &u.PhotoURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
