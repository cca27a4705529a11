// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repo declares the storage-agnostic repository interfaces for
// all Pagecraft entities, plus the shared error taxonomy, external ID
// scheme, and listing options both backends implement.
//
// Two implementations exist for every interface: internal/repo/couch
// (CouchDB, the legacy store) and internal/repo/postgres (PostgreSQL,
// the migration target). Which one is wired into the handlers is a
// startup-time configuration decision; callers never branch on the
// backend.
//
// Update semantics differ between backends and the divergence is part
// of the contract, not an accident:
//
//   - CouchDB: full replace. The entity's Rev must match the stored
//     revision or the write fails with a Conflict.
//   - PostgreSQL: partial patch. Optional (pointer) fields left nil keep
//     their stored value; Rev is ignored (last writer wins).
//
// Delete takes an optional revision token with the same split: CouchDB
// rejects a stale token, PostgreSQL ignores it.
package repo

import (
	"context"

	"pagecraft/internal/models"
)

// ListOptions carries pagination parameters for listing operations.
// Descending orders by creation date, newest first.
type ListOptions struct {
	Limit      int
	Offset     int
	Descending bool
}

// DefaultLimit applies when ListOptions.Limit is zero or negative.
const DefaultLimit = 50

// Normalize returns a copy with the default limit applied.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// PageRepository manages marketing-site pages.
type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id string) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id, rev string) error
	List(ctx context.Context, opts ListOptions) ([]models.Page, error)
	ListByStatus(ctx context.Context, status models.Status, opts ListOptions) ([]models.Page, error)
	Search(ctx context.Context, query string, opts ListOptions) ([]models.Page, error)
}

// PostRepository manages blog posts, including category/tag filtered
// listings and the per-term aggregate counts used for the blog sidebar.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id, rev string) error
	List(ctx context.Context, opts ListOptions) ([]models.Post, error)
	ListByStatus(ctx context.Context, status models.Status, opts ListOptions) ([]models.Post, error)
	ListByCategory(ctx context.Context, categorySlug string, opts ListOptions) ([]models.Post, error)
	ListByTag(ctx context.Context, tagSlug string, opts ListOptions) ([]models.Post, error)
	ListByAuthor(ctx context.Context, author string, opts ListOptions) ([]models.Post, error)
	Search(ctx context.Context, query string, opts ListOptions) ([]models.Post, error)
	GetCategories(ctx context.Context) ([]models.TermCount, error)
	GetTags(ctx context.Context) ([]models.TermCount, error)
}

// MediaRepository manages uploaded-file metadata records.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	GetByFilename(ctx context.Context, filename string) (*models.Media, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id, rev string) error
	List(ctx context.Context, opts ListOptions) ([]models.Media, error)
}

// UserRepository manages CMS users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id, rev string) error
	List(ctx context.Context, opts ListOptions) ([]models.User, error)
}

// ContactRepository manages contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, c *models.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	Update(ctx context.Context, c *models.ContactSubmission) error
	Delete(ctx context.Context, id, rev string) error
	List(ctx context.Context, opts ListOptions) ([]models.ContactSubmission, error)
	ListByStatus(ctx context.Context, status models.ContactStatus, opts ListOptions) ([]models.ContactSubmission, error)
}

// Repositories bundles one implementation of every interface, as wired
// at startup. Handlers depend on this struct rather than on concrete
// backend types.
type Repositories struct {
	Pages    PageRepository
	Posts    PostRepository
	Media    MediaRepository
	Users    UserRepository
	Contacts ContactRepository
}
