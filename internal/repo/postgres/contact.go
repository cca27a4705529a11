// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pagecraft/internal/database"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// ContactRepository implements repo.ContactRepository on PostgreSQL.
// Contact submissions are the one entity without a natural key, so the
// external ID carries the row UUID: "contact:{uuid}".
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository on the given pool.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name, email, company, message, ip, user_agent, status, created_at, updated_at`

func scanContact(scanner interface{ Scan(...any) error }) (*models.ContactSubmission, error) {
	var (
		c     models.ContactSubmission
		rowID uuid.UUID
	)
	err := scanner.Scan(
		&rowID, &c.Name, &c.Email, &c.Company, &c.Message,
		&c.IP, &c.UserAgent, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ID = repo.ContactID(rowID.String())
	return &c, nil
}

// Create inserts a submission with status "new" unless the caller set
// one, and assigns the external ID from the generated row UUID.
func (r *ContactRepository) Create(ctx context.Context, c *models.ContactSubmission) error {
	if c.Status == "" {
		c.Status = models.ContactStatusNew
	}

	q := database.Querier(ctx, r.db)
	var rowID uuid.UUID
	err := q.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (name, email, company, message, ip, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Company, c.Message, c.IP, c.UserAgent, c.Status,
	).Scan(&rowID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translate("create contact", c.Email, err)
	}

	c.ID = repo.ContactID(rowID.String())
	c.Rev = ""
	return nil
}

// GetByID parses the UUID out of the external ID and fetches the row.
// A malformed ID reads as NotFound, matching a missing document on the
// other backend.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	rowID, err := uuid.Parse(repo.LocalKey(id, repo.TypeContact))
	if err != nil {
		return nil, repo.NotFoundf("get contact", id)
	}

	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_submissions WHERE id = $1`, rowID)
	c, err := scanContact(row)
	if err != nil {
		return nil, translate("get contact", id, err)
	}
	return c, nil
}

// Update patches the workflow status; the submitted message and
// requester metadata are immutable. Rev is ignored.
func (r *ContactRepository) Update(ctx context.Context, c *models.ContactSubmission) error {
	rowID, err := uuid.Parse(repo.LocalKey(c.ID, repo.TypeContact))
	if err != nil {
		return repo.NotFoundf("update contact", c.ID)
	}

	existing, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	merged := *existing
	if c.Status != "" {
		merged.Status = c.Status
	}

	q := database.Querier(ctx, r.db)
	err = q.QueryRowContext(ctx, `
		UPDATE contact_submissions SET status = $1, updated_at = NOW() WHERE id = $2
		RETURNING updated_at
	`, merged.Status, rowID).Scan(&merged.UpdatedAt)
	if err != nil {
		return translate("update contact", c.ID, err)
	}

	*c = merged
	return nil
}

// Delete removes a submission by its primary key. Rev is ignored.
func (r *ContactRepository) Delete(ctx context.Context, id, rev string) error {
	_ = rev
	rowID, err := uuid.Parse(repo.LocalKey(id, repo.TypeContact))
	if err != nil {
		return repo.NotFoundf("delete contact", id)
	}

	q := database.Querier(ctx, r.db)
	res, err := q.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = $1`, rowID)
	if err != nil {
		return translate("delete contact", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repo.NotFoundf("delete contact", id)
	}
	return nil
}

// List returns submissions ordered by creation date.
func (r *ContactRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.ContactSubmission, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contact_submissions `+orderBy(opts.Descending)+` LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list contacts", "", err)
	}
	return collectContacts(rows)
}

// ListByStatus returns submissions in the given workflow state.
func (r *ContactRepository) ListByStatus(ctx context.Context, status models.ContactStatus, opts repo.ListOptions) ([]models.ContactSubmission, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+contactColumns+` FROM contact_submissions WHERE status = $1 `+orderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, status, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list contacts by status", string(status), err)
	}
	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]models.ContactSubmission, error) {
	defer rows.Close()

	var items []models.ContactSubmission
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
