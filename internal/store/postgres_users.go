package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yimtarbiyat/amal-backend/internal/models"
)

const postgresTimeout = 5 * time.Second

// PostgresUsers keeps profiles in the users table.
type PostgresUsers struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

var _ UserStore = (*PostgresUsers)(nil)

// CreateUser is a no-op when the profile already exists.
func (p *PostgresUsers) CreateUser(ctx context.Context, id, email, displayName string, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, is_admin, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, id, email, displayName, isAdmin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (p *PostgresUsers) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	var u models.UserProfile
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, is_admin, joined_at, total_submissions
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.IsAdmin, &u.JoinedAt, &u.TotalSubmissions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (p *PostgresUsers) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, email, display_name, is_admin, joined_at, total_submissions
		FROM users ORDER BY joined_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.UserProfile, 0)
	for rows.Next() {
		var u models.UserProfile
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.IsAdmin, &u.JoinedAt, &u.TotalSubmissions); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *PostgresUsers) SetUserAdmin(ctx context.Context, id string, isAdmin bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	res, err := p.db.ExecContext(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to update user role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (p *PostgresUsers) IncrementSubmissionCount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	res, err := p.db.ExecContext(ctx, `UPDATE users SET total_submissions = total_submissions + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment submission count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
