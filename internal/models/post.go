// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Post represents a blog post. Like Page it carries ordered content
// blocks and SEO metadata, plus blog-specific fields. PublishedAt is
// distinct from CreatedAt: a post may be authored now and scheduled to
// go live later.
type Post struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Excerpt       *string        `json:"excerpt,omitempty"`
	Author        string         `json:"author"`
	Blocks        []ContentBlock `json:"blocks"`
	Meta          SEOMeta        `json:"meta"`
	Categories    []string       `json:"categories,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	FeaturedImage *string        `json:"featured_image,omitempty"` // media external ID
	Status        Status         `json:"status"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Rev           string         `json:"rev,omitempty"`
}

// IsPublished returns true only if the post is in published status AND
// has a publication timestamp that is not in the future. A published
// post with a nil or future PublishedAt is not yet live.
func (p *Post) IsPublished() bool {
	if p.Status != StatusPublished || p.PublishedAt == nil {
		return false
	}
	return !p.PublishedAt.After(time.Now())
}

// TermCount is a category or tag aggregate: the display name, its
// URL-safe slug, and the number of posts carrying it.
type TermCount struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count"`
}
