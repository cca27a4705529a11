// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"fmt"
	"net/http"

	kivik "github.com/go-kivik/kivik/v4"

	"pagecraft/internal/repo"
)

// translate maps kivik/CouchDB errors into the shared repository
// taxonomy. CouchDB signals "document missing" with 404 and any MVCC
// revision mismatch (stale _rev, duplicate _id) with 409; everything
// else stays an internal error wrapped with the failing operation.
func translate(op, id string, err error) error {
	if err == nil {
		return nil
	}
	switch kivik.HTTPStatus(err) {
	case http.StatusNotFound:
		return repo.NotFoundf(op, id)
	case http.StatusConflict:
		return repo.Conflictf(op, id)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
