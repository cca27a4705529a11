// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"pagecraft/internal/models"
)

// Validation limits for content and contact fields.
const (
	maxTitleLen    = 300
	maxSlugLen     = 300
	maxBlockLen    = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxAltTextLen  = 500
	maxNameLen     = 200
	maxEmailLen    = 320
	maxCompanyLen  = 200
	maxMessageLen  = 10_000
)

// validateContent checks the fields shared by pages and posts and
// returns the first error found, or "" when everything passes.
func validateContent(title, slug string, blocks []models.ContentBlock, meta models.SEOMeta) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	for _, b := range blocks {
		if b.Type == "" {
			return "Every content block needs a type."
		}
		for _, v := range b.Fields {
			if utf8.RuneCountInString(v) > maxBlockLen {
				return "A content block field is too long (max 100,000 characters)."
			}
		}
	}
	if utf8.RuneCountInString(meta.Description) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validStatus reports whether s is one of the known content statuses.
func validStatus(s models.Status) bool {
	switch s {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return true
	}
	return false
}

// validContactStatus reports whether s is a known submission status.
func validContactStatus(s models.ContactStatus) bool {
	switch s {
	case models.ContactStatusNew, models.ContactStatusRead,
		models.ContactStatusReplied, models.ContactStatusResolved,
		models.ContactStatusSpam:
		return true
	}
	return false
}

// validateContact checks a contact form submission.
func validateContact(name, email, company, message string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long (max 320 characters)."
	}
	if utf8.RuneCountInString(company) > maxCompanyLen {
		return "Company is too long (max 200 characters)."
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return "Message is too long (max 10,000 characters)."
	}
	return ""
}
