// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContactStatus tracks where a contact submission sits in the follow-up
// workflow.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusResolved ContactStatus = "resolved"
	ContactStatusSpam     ContactStatus = "spam"
)

// ContactSubmission represents a message submitted through the public
// contact form, with the requester metadata captured at submission time.
type ContactSubmission struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   string        `json:"company,omitempty"`
	Message   string        `json:"message"`
	IP        string        `json:"ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Rev       string        `json:"rev,omitempty"`
}

// IsOpen returns true while the submission still needs attention.
func (c *ContactSubmission) IsOpen() bool {
	return c.Status == ContactStatusNew || c.Status == ContactStatusRead
}
