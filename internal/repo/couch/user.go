// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"time"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// UserRepository implements repo.UserRepository on CouchDB. Users are
// keyed "user:{email}", which makes the email both the login identity
// and the document key — an email change means a new document.
type UserRepository struct {
	c *Client
}

func NewUserRepository(c *Client) *UserRepository {
	return &UserRepository{c: c}
}

// userDoc persists the credential fields the public model hides from
// JSON serialization, so it spells its own tags rather than embedding
// models.User.
type userDoc struct {
	ID           string     `json:"_id"`
	Rev          string     `json:"_rev,omitempty"`
	Type         string     `json:"type"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name,omitempty"`
	PasswordHash string     `json:"password_hash"`
	Role         models.Role `json:"role"`
	TOTPSecret   *string    `json:"totp_secret,omitempty"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (d *userDoc) toModel() models.User {
	return models.User{
		ID:           d.ID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		TOTPSecret:   d.TOTPSecret,
		TOTPEnabled:  d.TOTPEnabled,
		CreatedAt:    d.CreatedAt,
		LastLoginAt:  d.LastLoginAt,
		Rev:          d.Rev,
	}
}

func userToDoc(u *models.User) userDoc {
	return userDoc{
		ID:           repo.UserID(u.Email),
		Rev:          u.Rev,
		Type:         repo.TypeUser,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TOTPSecret:   u.TOTPSecret,
		TOTPEnabled:  u.TOTPEnabled,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

// Create stores a new user. PasswordHash must already be hashed by the
// caller. A duplicate email surfaces as a Conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	user.ID = repo.UserID(user.Email)

	doc := userToDoc(user)
	doc.Rev = ""
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("create user", doc.ID, err)
	}
	user.Rev = rev
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.GetByEmail(ctx, repo.LocalKey(id, repo.TypeUser))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docID := repo.UserID(email)
	var doc userDoc
	if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, translate("get user", docID, err)
	}
	user := doc.toModel()
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	doc := userToDoc(user)
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("update user", doc.ID, err)
	}
	user.ID = doc.ID
	user.Rev = rev
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id, rev string) error {
	docID := repo.UserID(repo.LocalKey(id, repo.TypeUser))
	if rev == "" {
		var doc userDoc
		if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
			return translate("delete user", docID, err)
		}
		rev = doc.Rev
	}
	if _, err := r.c.db.Delete(ctx, docID, rev); err != nil {
		return translate("delete user", docID, err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.User, error) {
	rows := r.c.queryView(ctx, "users", "by_created", listParams(opts))
	defer rows.Close()
	users := []models.User{}
	for rows.Next() {
		var doc userDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, translate("scan user", "", err)
		}
		users = append(users, doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list users", "", err)
	}
	return users, nil
}
