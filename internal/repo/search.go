// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repo

import "strings"

// SearchTokens splits a free-text query into lowercase search tokens.
// The input is cut on every non-alphanumeric rune and tokens of length
// one or less are dropped. Both backends build their prefix-match
// queries from these tokens, so "Hello, World! & More" searches for the
// prefixes "hello", "world", and "more" on either store.
//
// An empty result means the query had no usable tokens; by policy the
// backends return zero rows for it rather than matching everything.
func SearchTokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isAlphanumeric(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func isAlphanumeric(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}
