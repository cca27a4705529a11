// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"time"

	kivik "github.com/go-kivik/kivik/v4"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// PageRepository implements repo.PageRepository on CouchDB. Pages are
// stored under the document ID "page:{slug}", which makes slug lookup a
// direct key get and the slug immutable for the life of the document.
type PageRepository struct {
	c *Client
}

func NewPageRepository(c *Client) *PageRepository {
	return &PageRepository{c: c}
}

type pageDoc struct {
	ID        string                `json:"_id"`
	Rev       string                `json:"_rev,omitempty"`
	Type      string                `json:"type"`
	Slug      string                `json:"slug"`
	Title     string                `json:"title"`
	Blocks    []models.ContentBlock `json:"blocks"`
	Meta      models.SEOMeta        `json:"meta"`
	Status    models.Status         `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (d *pageDoc) toModel() models.Page {
	return models.Page{
		ID:        d.ID,
		Slug:      d.Slug,
		Title:     d.Title,
		Blocks:    d.Blocks,
		Meta:      d.Meta,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Rev:       d.Rev,
	}
}

func pageToDoc(p *models.Page) pageDoc {
	return pageDoc{
		ID:        repo.PageID(p.Slug),
		Rev:       p.Rev,
		Type:      repo.TypePage,
		Slug:      p.Slug,
		Title:     p.Title,
		Blocks:    p.Blocks,
		Meta:      p.Meta,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create stores a new page. A page with the same slug already existing
// surfaces as a Conflict (the document ID collides).
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now
	page.ID = repo.PageID(page.Slug)

	doc := pageToDoc(page)
	doc.Rev = ""
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("create page", doc.ID, err)
	}
	page.Rev = rev
	return nil
}

func (r *PageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	return r.GetBySlug(ctx, repo.LocalKey(id, repo.TypePage))
}

func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	docID := repo.PageID(slug)
	var doc pageDoc
	if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, translate("get page", docID, err)
	}
	page := doc.toModel()
	return &page, nil
}

// Update replaces the stored document wholesale. The page must carry
// the current revision in Rev; a missing or stale revision fails with a
// Conflict and the caller should re-fetch before retrying. The slug
// cannot change because it is baked into the document ID.
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	page.UpdatedAt = time.Now().UTC()
	doc := pageToDoc(page)
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("update page", doc.ID, err)
	}
	page.ID = doc.ID
	page.Rev = rev
	return nil
}

// Delete removes the page. With a revision supplied the delete is gated
// on it; with an empty revision the current one is resolved first.
func (r *PageRepository) Delete(ctx context.Context, id, rev string) error {
	docID := repo.PageID(repo.LocalKey(id, repo.TypePage))
	if rev == "" {
		var doc pageDoc
		if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
			return translate("delete page", docID, err)
		}
		rev = doc.Rev
	}
	if _, err := r.c.db.Delete(ctx, docID, rev); err != nil {
		return translate("delete page", docID, err)
	}
	return nil
}

func (r *PageRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Page, error) {
	rows := r.c.queryView(ctx, "pages", "by_created", listParams(opts))
	return collectPages(rows)
}

func (r *PageRepository) ListByStatus(ctx context.Context, status models.Status, opts repo.ListOptions) ([]models.Page, error) {
	rows := r.c.queryView(ctx, "pages", "by_status", rangeParams(string(status), opts))
	return collectPages(rows)
}

// Search resolves the query against the token view and fetches the
// matching documents. Results are ordered by document ID (slug order);
// pagination is applied to the intersected ID set in memory.
func (r *PageRepository) Search(ctx context.Context, query string, opts repo.ListOptions) ([]models.Page, error) {
	ids, err := r.c.searchIDs(ctx, "pages", query)
	if err != nil {
		return nil, err
	}
	ids = pageWindow(ids, opts)
	if len(ids) == 0 {
		return []models.Page{}, nil
	}
	return collectPages(r.c.fetchDocs(ctx, ids))
}

func collectPages(rows *kivik.ResultSet) ([]models.Page, error) {
	defer rows.Close()
	pages := []models.Page{}
	for rows.Next() {
		var doc pageDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, translate("scan page", "", err)
		}
		pages = append(pages, doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list pages", "", err)
	}
	return pages, nil
}
