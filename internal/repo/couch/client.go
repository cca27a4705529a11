// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package couch implements the repository interfaces on CouchDB, the
// legacy document store. All entities live in one database, keyed by
// composite document IDs ("page:{slug}", "media:{filename}", ...), and
// every access pattern other than get-by-ID goes through a MapReduce
// view in a per-entity design document.
//
// Update follows full-replace semantics: the document is rewritten
// wholesale and the write is gated on the entity's Rev matching the
// stored revision (CouchDB MVCC). A stale Rev surfaces as a Conflict.
// Delete is revision-gated the same way, so it resolves the current
// revision first when the caller does not supply one.
package couch

import (
	"context"
	"fmt"
	"log/slog"

	kivik "github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb" // CouchDB driver

	"pagecraft/internal/repo"
)

// Client wraps a kivik connection to the one CouchDB database all
// repositories share. The underlying HTTP client is safe for
// concurrent use; no locking happens at this layer.
type Client struct {
	client *kivik.Client
	db     *kivik.DB
	name   string
}

// Connect opens a CouchDB connection, creates the database if it does
// not exist, and installs the design documents the repositories query.
func Connect(ctx context.Context, url, dbName string) (*Client, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("couchdb client: %w", err)
	}

	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("couchdb reach %q: %w", dbName, err)
	}
	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("couchdb create %q: %w", dbName, err)
		}
	}

	c := &Client{
		client: client,
		db:     client.DB(dbName),
		name:   dbName,
	}
	if err := c.db.Err(); err != nil {
		return nil, fmt.Errorf("couchdb open %q: %w", dbName, err)
	}

	if err := c.ensureDesignDocs(ctx); err != nil {
		return nil, err
	}

	slog.Info("couchdb connected", "database", dbName)
	return c, nil
}

// New builds the full repository set on one shared client.
func New(c *Client) *Repositories {
	return &Repositories{
		Pages:    NewPageRepository(c),
		Posts:    NewPostRepository(c),
		Media:    NewMediaRepository(c),
		Users:    NewUserRepository(c),
		Contacts: NewContactRepository(c),
	}
}

// Repositories bundles the CouchDB implementations.
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

// Close closes the underlying CouchDB connection.
func (c *Client) Close() error {
	return c.client.Close()
}
