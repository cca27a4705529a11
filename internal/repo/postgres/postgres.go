// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package postgres implements the repository interfaces on PostgreSQL,
// the migration target backend. Queries are hand-written parameterized
// SQL over the pgx stdlib driver; rows are keyed by UUID internally but
// every entity is presented to callers with the same external ID shape
// the CouchDB backend uses ("page:{slug}", "media:{filename}", ...), so
// upstream code cannot tell the backends apart.
//
// Update follows partial-patch semantics: the row is resolved by slug
// (or filename/email) first, optional fields left unset fall back to
// the stored value, and the merged row is written back. There is no
// revision check on this backend — last writer wins.
package postgres

import (
	"database/sql"
	"strings"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// New builds the full repository set on one shared connection pool.
func New(db *sql.DB) *Repositories {
	return &Repositories{
		Pages:    NewPageRepository(db),
		Posts:    NewPostRepository(db),
		Media:    NewMediaRepository(db),
		Users:    NewUserRepository(db),
		Contacts: NewContactRepository(db),
	}
}

// Repositories bundles the PostgreSQL implementations.
type Repositories struct {
	Pages    *PageRepository
	Posts    *PostRepository
	Media    *MediaRepository
	Users    *UserRepository
	Contacts *ContactRepository
}

// Bundle exposes the set behind the storage-agnostic interfaces.
func (r *Repositories) Bundle() *repo.Repositories {
	return &repo.Repositories{
		Pages:    r.Pages,
		Posts:    r.Posts,
		Media:    r.Media,
		Users:    r.Users,
		Contacts: r.Contacts,
	}
}

// searchText flattens the searchable fields of a page or post into one
// string. It is stored alongside the row and indexed with a 'simple'
// tsvector. The document backend's token views must index the same
// field set, or the same query returns different hits per backend.
func searchText(title, slug string, meta models.SEOMeta, blocks []models.ContentBlock, extra ...string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte(' ')
	b.WriteString(slug)
	b.WriteByte(' ')
	b.WriteString(meta.Title)
	b.WriteByte(' ')
	b.WriteString(meta.Description)
	for _, kw := range meta.Keywords {
		b.WriteByte(' ')
		b.WriteString(kw)
	}
	for _, blk := range blocks {
		for _, v := range blk.Fields {
			b.WriteByte(' ')
			b.WriteString(v)
		}
	}
	for _, s := range extra {
		b.WriteByte(' ')
		b.WriteString(s)
	}
	return b.String()
}

// orderBy returns the creation-date ordering clause for list queries.
func orderBy(descending bool) string {
	if descending {
		return "ORDER BY created_at DESC"
	}
	return "ORDER BY created_at ASC"
}
