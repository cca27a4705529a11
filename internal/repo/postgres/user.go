// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pagecraft/internal/database"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// UserRepository implements repo.UserRepository on PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository on the given pool.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `email, display_name, password_hash, role, totp_secret, totp_enabled, created_at, last_login_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.Email, &u.DisplayName, &u.PasswordHash, &u.Role,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	u.ID = repo.UserID(u.Email)
	return &u, nil
}

// Create inserts a user. The password must already be hashed by the
// caller. An email collision surfaces as a Conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	q := database.Querier(ctx, r.db)
	err := q.QueryRowContext(ctx, `
		INSERT INTO users (email, display_name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, user.Email, user.DisplayName, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		return translate("create user", user.Email, err)
	}

	user.ID = repo.UserID(user.Email)
	user.Rev = ""
	return nil
}

// GetByID resolves an external ID ("user:{email}") by email.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.GetByEmail(ctx, repo.LocalKey(id, repo.TypeUser))
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, translate("get user", email, err)
	}
	return u, nil
}

// Update resolves by email and patches the mutable fields. Empty
// strings and nil pointers keep their stored values, except the 2FA
// pair (TOTPSecret, TOTPEnabled) which is always written as given: a
// nil secret with the flag off is a reset, not an omission, so the old
// secret cannot survive and re-arm without re-enrollment. Rev is
// ignored.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	email := user.Email
	if email == "" {
		email = repo.LocalKey(user.ID, repo.TypeUser)
	}

	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	merged := *existing
	if user.DisplayName != "" {
		merged.DisplayName = user.DisplayName
	}
	if user.PasswordHash != "" {
		merged.PasswordHash = user.PasswordHash
	}
	if user.Role != "" {
		merged.Role = user.Role
	}
	if user.LastLoginAt != nil {
		merged.LastLoginAt = user.LastLoginAt
	}
	merged.TOTPSecret = user.TOTPSecret
	merged.TOTPEnabled = user.TOTPEnabled

	q := database.Querier(ctx, r.db)
	if _, err := q.ExecContext(ctx, `
		UPDATE users SET display_name = $1, password_hash = $2, role = $3,
			totp_secret = $4, totp_enabled = $5, last_login_at = $6
		WHERE email = $7
	`, merged.DisplayName, merged.PasswordHash, merged.Role,
		merged.TOTPSecret, merged.TOTPEnabled, merged.LastLoginAt, email,
	); err != nil {
		return translate("update user", email, err)
	}

	*user = merged
	user.ID = repo.UserID(email)
	return nil
}

// Delete resolves the row by email and deletes it by primary key.
// Rev is ignored.
func (r *UserRepository) Delete(ctx context.Context, id, rev string) error {
	_ = rev
	email := repo.LocalKey(id, repo.TypeUser)

	q := database.Querier(ctx, r.db)
	var rowID string
	if err := q.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&rowID); err != nil {
		return translate("delete user", email, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, rowID); err != nil {
		return translate("delete user", email, err)
	}
	return nil
}

// List returns users ordered by creation date.
func (r *UserRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.User, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users `+orderBy(opts.Descending)+` LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list users", "", err)
	}
	defer rows.Close()

	var items []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}
