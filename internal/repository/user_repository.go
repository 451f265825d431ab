package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/school-records/internal/model"
)

// UserRepository handles API credential storage.
type UserRepository struct {
	db DBTX
}

// FindByUsername retrieves an API user by name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (Lookup[model.APIUser], error) {
	var u model.APIUser
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM api_users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NotFound[model.APIUser](), nil
		}
		return NotFound[model.APIUser](), err
	}
	return Found(u), nil
}

// Create inserts an API user.
func (r *UserRepository) Create(ctx context.Context, u *model.APIUser) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO api_users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		u.Username, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}
