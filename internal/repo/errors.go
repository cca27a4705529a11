// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repo

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Both backends normalize their native failures
// (CouchDB HTTP 404/409, pgx no-rows/constraint violations) into these
// so callers branch on kind, never on backend-specific error values.
var (
	// ErrNotFound reports a missing entity by ID, slug, filename, or email.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a unique-constraint violation or a stale-revision
	// write.
	ErrConflict = errors.New("conflict")
)

// NotFoundf wraps ErrNotFound with operation and identifier context.
func NotFoundf(op, id string) error {
	return fmt.Errorf("%s %q: %w", op, id, ErrNotFound)
}

// Conflictf wraps ErrConflict with operation and identifier context.
func Conflictf(op, id string) error {
	return fmt.Errorf("%s %q: %w", op, id, ErrConflict)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is (or wraps) ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
