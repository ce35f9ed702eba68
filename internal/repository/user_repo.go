package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"turnero/internal/db"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

// GetByEmail returns (nil, nil) when no user has that email.
func (r *UserRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(`
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

// GetByID returns (nil, nil) when the user does not exist.
func (r *UserRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(`
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(u *db.User) error {
	err := r.DB.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}
