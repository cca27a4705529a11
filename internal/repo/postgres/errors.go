// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"pagecraft/internal/repo"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// violation.
const uniqueViolation = "23505"

// translate normalizes a driver error into the shared repository
// taxonomy. Detection is structural — error code and constraint name
// from *pgconn.PgError — never substring matching on message text.
func translate(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repo.NotFoundf(op, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %q (constraint %s): %w", op, id, pgErr.ConstraintName, repo.ErrConflict)
	}

	return fmt.Errorf("%s %q: %w", op, id, err)
}
