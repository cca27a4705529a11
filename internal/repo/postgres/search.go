// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"strings"

	"pagecraft/internal/repo"
)

// tsQuery builds a prefix-match tsquery expression from a free-text
// query: each usable token gets a ":*" prefix marker and all tokens are
// ANDed. Returns false when the input yields no usable tokens; by
// policy such a search matches nothing rather than everything.
func tsQuery(query string) (string, bool) {
	tokens := repo.SearchTokens(query)
	if len(tokens) == 0 {
		return "", false
	}

	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok + ":*"
	}
	return strings.Join(parts, " & "), true
}
