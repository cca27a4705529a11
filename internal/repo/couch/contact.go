// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"time"

	kivik "github.com/go-kivik/kivik/v4"
	"github.com/google/uuid"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// ContactRepository implements repo.ContactRepository on CouchDB.
// Submissions have no natural key, so Create mints a UUID and keys the
// document "contact:{uuid}".
type ContactRepository struct {
	c *Client
}

func NewContactRepository(c *Client) *ContactRepository {
	return &ContactRepository{c: c}
}

type contactDoc struct {
	ID        string               `json:"_id"`
	Rev       string               `json:"_rev,omitempty"`
	Type      string               `json:"type"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Company   string               `json:"company,omitempty"`
	Message   string               `json:"message"`
	IP        string               `json:"ip,omitempty"`
	UserAgent string               `json:"user_agent,omitempty"`
	Status    models.ContactStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (d *contactDoc) toModel() models.ContactSubmission {
	return models.ContactSubmission{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Company:   d.Company,
		Message:   d.Message,
		IP:        d.IP,
		UserAgent: d.UserAgent,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Rev:       d.Rev,
	}
}

func contactToDoc(c *models.ContactSubmission) contactDoc {
	return contactDoc{
		ID:        c.ID,
		Rev:       c.Rev,
		Type:      repo.TypeContact,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Message:   c.Message,
		IP:        c.IP,
		UserAgent: c.UserAgent,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *ContactRepository) Create(ctx context.Context, c *models.ContactSubmission) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.ID = repo.ContactID(uuid.NewString())
	if c.Status == "" {
		c.Status = models.ContactStatusNew
	}

	doc := contactToDoc(c)
	doc.Rev = ""
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("create contact", doc.ID, err)
	}
	c.Rev = rev
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	docID := repo.ContactID(repo.LocalKey(id, repo.TypeContact))
	var doc contactDoc
	if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, translate("get contact", docID, err)
	}
	c := doc.toModel()
	return &c, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *models.ContactSubmission) error {
	c.UpdatedAt = time.Now().UTC()
	doc := contactToDoc(c)
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("update contact", doc.ID, err)
	}
	c.Rev = rev
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id, rev string) error {
	docID := repo.ContactID(repo.LocalKey(id, repo.TypeContact))
	if rev == "" {
		var doc contactDoc
		if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
			return translate("delete contact", docID, err)
		}
		rev = doc.Rev
	}
	if _, err := r.c.db.Delete(ctx, docID, rev); err != nil {
		return translate("delete contact", docID, err)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.ContactSubmission, error) {
	return r.collect(r.c.queryView(ctx, "contacts", "by_created", listParams(opts)))
}

func (r *ContactRepository) ListByStatus(ctx context.Context, status models.ContactStatus, opts repo.ListOptions) ([]models.ContactSubmission, error) {
	return r.collect(r.c.queryView(ctx, "contacts", "by_status", rangeParams(string(status), opts)))
}

func (r *ContactRepository) collect(rows *kivik.ResultSet) ([]models.ContactSubmission, error) {
	defer rows.Close()
	subs := []models.ContactSubmission{}
	for rows.Next() {
		var doc contactDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, translate("scan contact", "", err)
		}
		subs = append(subs, doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list contacts", "", err)
	}
	return subs, nil
}
