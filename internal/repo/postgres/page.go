// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pagecraft/internal/database"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// PageRepository implements repo.PageRepository on PostgreSQL.
type PageRepository struct {
	db *sql.DB
}

// NewPageRepository creates a new PageRepository on the given pool.
func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

const pageColumns = `slug, title, blocks, meta_title, meta_description, meta_keywords, status, created_at, updated_at`

// scanPage scans a page row and reconstructs the external ID from the
// slug so callers see the same ID shape the document backend produces.
func scanPage(scanner interface{ Scan(...any) error }) (*models.Page, error) {
	var (
		p            models.Page
		blocksJSON   []byte
		keywordsJSON []byte
	)
	err := scanner.Scan(
		&p.Slug, &p.Title, &blocksJSON, &p.Meta.Title, &p.Meta.Description,
		&keywordsJSON, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blocksJSON, &p.Blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	if err := json.Unmarshal(keywordsJSON, &p.Meta.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	p.ID = repo.PageID(p.Slug)
	return &p, nil
}

// Create inserts a new page. Timestamps are server-generated; a slug
// collision surfaces as a Conflict via the unique constraint.
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	blocksJSON, err := json.Marshal(page.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	keywordsJSON, err := json.Marshal(page.Meta.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	q := database.Querier(ctx, r.db)
	err = q.QueryRowContext(ctx, `
		INSERT INTO pages (slug, title, blocks, meta_title, meta_description, meta_keywords, status, search_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, page.Slug, page.Title, blocksJSON, page.Meta.Title, page.Meta.Description,
		keywordsJSON, page.Status, searchText(page.Title, page.Slug, page.Meta, page.Blocks),
	).Scan(&page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return translate("create page", page.Slug, err)
	}

	page.ID = repo.PageID(page.Slug)
	page.Rev = ""
	return nil
}

// GetByID resolves an external ID ("page:{slug}") by stripping the
// prefix and looking up the slug; the row's UUID primary key never
// leaves this package.
func (r *PageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	return r.GetBySlug(ctx, repo.LocalKey(id, repo.TypePage))
}

// GetBySlug retrieves a page by slug regardless of status.
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug)
	p, err := scanPage(row)
	if err != nil {
		return nil, translate("get page", slug, err)
	}
	return p, nil
}

// Update resolves the stored row by slug, merges it with the supplied
// fields (nil slices keep their stored value, empty required strings
// keep their stored value), and writes the merged row back. The slug is
// immutable: it anchors the external ID on both backends. Rev is
// ignored — this backend has no revision check.
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	slug := page.Slug
	if slug == "" {
		slug = repo.LocalKey(page.ID, repo.TypePage)
	}

	existing, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	merged := mergePage(existing, page)

	blocksJSON, err := json.Marshal(merged.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	keywordsJSON, err := json.Marshal(merged.Meta.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	q := database.Querier(ctx, r.db)
	err = q.QueryRowContext(ctx, `
		UPDATE pages SET
			title = $1, blocks = $2, meta_title = $3, meta_description = $4,
			meta_keywords = $5, status = $6, search_text = $7, updated_at = NOW()
		WHERE slug = $8
		RETURNING updated_at
	`, merged.Title, blocksJSON, merged.Meta.Title, merged.Meta.Description,
		keywordsJSON, merged.Status, searchText(merged.Title, slug, merged.Meta, merged.Blocks), slug,
	).Scan(&merged.UpdatedAt)
	if err != nil {
		return translate("update page", slug, err)
	}

	*page = *merged
	page.ID = repo.PageID(slug)
	return nil
}

// mergePage applies partial-patch semantics for the relational path.
func mergePage(existing, update *models.Page) *models.Page {
	merged := *existing
	if update.Title != "" {
		merged.Title = update.Title
	}
	if update.Status != "" {
		merged.Status = update.Status
	}
	if update.Blocks != nil {
		merged.Blocks = update.Blocks
	}
	if update.Meta.Title != "" {
		merged.Meta.Title = update.Meta.Title
	}
	if update.Meta.Description != "" {
		merged.Meta.Description = update.Meta.Description
	}
	if update.Meta.Keywords != nil {
		merged.Meta.Keywords = update.Meta.Keywords
	}
	return &merged
}

// Delete resolves the row by slug and deletes it by primary key. The
// rev token is accepted for interface parity and ignored.
func (r *PageRepository) Delete(ctx context.Context, id, rev string) error {
	_ = rev
	slug := repo.LocalKey(id, repo.TypePage)

	q := database.Querier(ctx, r.db)
	var rowID string
	if err := q.QueryRowContext(ctx, `SELECT id FROM pages WHERE slug = $1`, slug).Scan(&rowID); err != nil {
		return translate("delete page", slug, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, rowID); err != nil {
		return translate("delete page", slug, err)
	}
	return nil
}

// List returns pages of any status ordered by creation date. This is a
// real unconditional query with LIMIT/OFFSET, not a broad search.
func (r *PageRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Page, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages `+orderBy(opts.Descending)+` LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list pages", "", err)
	}
	return collectPages(rows)
}

// ListByStatus returns pages with the given status.
func (r *PageRepository) ListByStatus(ctx context.Context, status models.Status, opts repo.ListOptions) ([]models.Page, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages WHERE status = $1 `+orderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, status, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list pages by status", string(status), err)
	}
	return collectPages(rows)
}

// Search runs a prefix-match full-text query over the indexed search
// text. A query with no usable tokens returns zero rows by policy.
func (r *PageRepository) Search(ctx context.Context, query string, opts repo.ListOptions) ([]models.Page, error) {
	ts, ok := tsQuery(query)
	if !ok {
		return []models.Page{}, nil
	}

	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE to_tsvector('simple', search_text) @@ to_tsquery('simple', $1)
		`+orderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, ts, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("search pages", query, err)
	}
	return collectPages(rows)
}

func collectPages(rows *sql.Rows) ([]models.Page, error) {
	defer rows.Close()

	var items []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
