package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (name, email, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, u, query, u.Name, u.Email, u.Role, u.IsActive)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves all users
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY name")
	return users, err
}

// UpdateUser updates a user's name, email, role and active flag
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2, role = $3, is_active = $4 WHERE id = $5",
		u.Name, u.Email, u.Role, u.IsActive, u.ID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %d: %w", u.ID, models.ErrNotFound)
	}
	return nil
}

// DeactivateUser soft-deletes a user
func (s *Store) DeactivateUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return nil
}
