// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repo

import "strings"

// Entity type prefixes used in external IDs. The external ID is the
// CouchDB document key; the PostgreSQL backend presents the same string
// to callers even though its internal primary key is a UUID, so the two
// backends stay interchangeable upstream.
const (
	TypePage    = "page"
	TypePost    = "post"
	TypeMedia   = "media"
	TypeUser    = "user"
	TypeContact = "contact"
)

// PageID builds the external ID for a page: "page:{slug}".
func PageID(slug string) string { return TypePage + ":" + slug }

// PostID builds the external ID for a post: "post:{slug}".
func PostID(slug string) string { return TypePost + ":" + slug }

// MediaID builds the external ID for a media record: "media:{filename}".
func MediaID(filename string) string { return TypeMedia + ":" + filename }

// UserID builds the external ID for a user: "user:{email}".
func UserID(email string) string { return TypeUser + ":" + email }

// ContactID builds the external ID for a contact submission:
// "contact:{uuid}".
func ContactID(key string) string { return TypeContact + ":" + key }

// SplitID splits an external ID into its type prefix and local key.
// An ID without a prefix is returned with an empty type.
func SplitID(id string) (entityType, key string) {
	if i := strings.Index(id, ":"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// LocalKey strips the given type prefix from an external ID. IDs passed
// without the prefix are returned unchanged, so callers may use a bare
// slug where an ID is expected.
func LocalKey(id, entityType string) string {
	return strings.TrimPrefix(id, entityType+":")
}
