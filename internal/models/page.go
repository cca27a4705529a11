// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Status represents the publishing state of a page or post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ContentBlock is one typed block in a page or post body. Blocks are
// stored in order; Fields carries the block payload as string key/values
// (e.g. a "markdown" block has a "content" field, an "image" block has
// "src" and "caption" fields).
type ContentBlock struct {
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

// SEOMeta holds the search-engine metadata attached to a page or post.
type SEOMeta struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Page represents a marketing-site page. The ID is an opaque external
// identifier ("page:{slug}" on both storage backends); callers must not
// parse it. Rev carries the document-store revision token used for
// optimistic concurrency — it is empty on the relational backend.
type Page struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Blocks    []ContentBlock `json:"blocks"`
	Meta      SEOMeta        `json:"meta"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Rev       string         `json:"rev,omitempty"`
}

// IsPublished returns true if the page is in published status.
func (p *Page) IsPublished() bool {
	return p.Status == StatusPublished
}
