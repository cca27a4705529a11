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
	"pagecraft/internal/slug"
)

// PostRepository implements repo.PostRepository on PostgreSQL.
// Categories and tags are normalized lookup tables joined through link
// tables keyed by slug, not denormalized string arrays.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository on the given pool.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// postColumns selects the post row plus its category and tag names
// aggregated as JSON arrays, so listings come back in a single query.
const postColumns = `
	p.id, p.slug, p.title, p.excerpt, p.author, p.blocks,
	p.meta_title, p.meta_description, p.meta_keywords,
	p.featured_image, p.status, p.published_at, p.created_at, p.updated_at,
	COALESCE((SELECT json_agg(c.name ORDER BY c.name)
		FROM categories c JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = p.id), '[]'),
	COALESCE((SELECT json_agg(t.name ORDER BY t.name)
		FROM tags t JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = p.id), '[]')`

type postRow struct {
	rowID string
	post  models.Post
}

func scanPost(scanner interface{ Scan(...any) error }) (*postRow, error) {
	var (
		r              postRow
		blocksJSON     []byte
		keywordsJSON   []byte
		categoriesJSON []byte
		tagsJSON       []byte
	)
	p := &r.post
	err := scanner.Scan(
		&r.rowID, &p.Slug, &p.Title, &p.Excerpt, &p.Author, &blocksJSON,
		&p.Meta.Title, &p.Meta.Description, &keywordsJSON,
		&p.FeaturedImage, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&categoriesJSON, &tagsJSON,
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
	if err := json.Unmarshal(categoriesJSON, &p.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	p.ID = repo.PostID(p.Slug)
	return &r, nil
}

// postSearchText adds the post-only searchable fields (excerpt,
// categories, tags) on top of the shared page set.
func postSearchText(slug string, p *models.Post) string {
	extra := make([]string, 0, 1+len(p.Categories)+len(p.Tags))
	if p.Excerpt != nil {
		extra = append(extra, *p.Excerpt)
	}
	extra = append(extra, p.Categories...)
	extra = append(extra, p.Tags...)
	return searchText(p.Title, slug, p.Meta, p.Blocks, extra...)
}

// Create inserts a post and links its categories and tags. The write
// runs in a single transaction unless the caller already opened one.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if database.InTx(ctx) {
		return r.create(ctx, post)
	}
	return database.WithinTx(ctx, r.db, func(ctx context.Context) error {
		return r.create(ctx, post)
	})
}

func (r *PostRepository) create(ctx context.Context, post *models.Post) error {
	blocksJSON, err := json.Marshal(post.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	keywordsJSON, err := json.Marshal(post.Meta.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	q := database.Querier(ctx, r.db)
	var rowID string
	err = q.QueryRowContext(ctx, `
		INSERT INTO posts (slug, title, excerpt, author, blocks,
			meta_title, meta_description, meta_keywords,
			featured_image, status, search_text, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, post.Slug, post.Title, post.Excerpt, post.Author, blocksJSON,
		post.Meta.Title, post.Meta.Description, keywordsJSON,
		post.FeaturedImage, post.Status,
		postSearchText(post.Slug, post), post.PublishedAt,
	).Scan(&rowID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return translate("create post", post.Slug, err)
	}

	if err := r.linkTerms(ctx, rowID, post.Categories, post.Tags); err != nil {
		return err
	}

	post.ID = repo.PostID(post.Slug)
	post.Rev = ""
	return nil
}

// linkTerms replaces the category and tag links for a post. Terms are
// upserted by their normalized slug; two display names that collide
// after normalization merge into one term, matching the document
// backend's aggregation behavior.
func (r *PostRepository) linkTerms(ctx context.Context, rowID string, categories, tags []string) error {
	q := database.Querier(ctx, r.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, rowID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	for _, name := range categories {
		var termID string
		err := q.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = categories.name
			RETURNING id
		`, name, slug.Generate(name)).Scan(&termID)
		if err != nil {
			return fmt.Errorf("upsert category %q: %w", name, err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, rowID, termID); err != nil {
			return fmt.Errorf("link category %q: %w", name, err)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, rowID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, name := range tags {
		var termID string
		err := q.QueryRowContext(ctx, `
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = tags.name
			RETURNING id
		`, name, slug.Generate(name)).Scan(&termID)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, rowID, termID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}

	return nil
}

// GetByID resolves an external ID ("post:{slug}") by slug lookup.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.GetBySlug(ctx, repo.LocalKey(id, repo.TypePost))
}

// GetBySlug retrieves a post by slug regardless of status.
func (r *PostRepository) GetBySlug(ctx context.Context, s string) (*models.Post, error) {
	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.slug = $1`, s)
	pr, err := scanPost(row)
	if err != nil {
		return nil, translate("get post", s, err)
	}
	return &pr.post, nil
}

// Update resolves by slug and applies partial-patch semantics: nil
// pointers and nil slices keep their stored value. Rev is ignored.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if database.InTx(ctx) {
		return r.update(ctx, post)
	}
	return database.WithinTx(ctx, r.db, func(ctx context.Context) error {
		return r.update(ctx, post)
	})
}

func (r *PostRepository) update(ctx context.Context, post *models.Post) error {
	s := post.Slug
	if s == "" {
		s = repo.LocalKey(post.ID, repo.TypePost)
	}

	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.slug = $1`, s)
	pr, err := scanPost(row)
	if err != nil {
		return translate("update post", s, err)
	}
	merged := mergePost(&pr.post, post)

	blocksJSON, err := json.Marshal(merged.Blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	keywordsJSON, err := json.Marshal(merged.Meta.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, excerpt = $2, author = $3, blocks = $4,
			meta_title = $5, meta_description = $6, meta_keywords = $7,
			featured_image = $8, status = $9, search_text = $10,
			published_at = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`, merged.Title, merged.Excerpt, merged.Author, blocksJSON,
		merged.Meta.Title, merged.Meta.Description, keywordsJSON,
		merged.FeaturedImage, merged.Status,
		postSearchText(s, merged),
		merged.PublishedAt, pr.rowID,
	).Scan(&merged.UpdatedAt)
	if err != nil {
		return translate("update post", s, err)
	}

	if err := r.linkTerms(ctx, pr.rowID, merged.Categories, merged.Tags); err != nil {
		return err
	}

	*post = *merged
	post.ID = repo.PostID(s)
	return nil
}

// mergePost applies partial-patch semantics for the relational path.
func mergePost(existing, update *models.Post) *models.Post {
	merged := *existing
	if update.Title != "" {
		merged.Title = update.Title
	}
	if update.Status != "" {
		merged.Status = update.Status
	}
	if update.Author != "" {
		merged.Author = update.Author
	}
	if update.Excerpt != nil {
		merged.Excerpt = update.Excerpt
	}
	if update.Blocks != nil {
		merged.Blocks = update.Blocks
	}
	if update.Categories != nil {
		merged.Categories = update.Categories
	}
	if update.Tags != nil {
		merged.Tags = update.Tags
	}
	if update.FeaturedImage != nil {
		merged.FeaturedImage = update.FeaturedImage
	}
	if update.PublishedAt != nil {
		merged.PublishedAt = update.PublishedAt
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

// Delete resolves by slug then deletes by primary key; link rows go
// with it via ON DELETE CASCADE. Rev is ignored.
func (r *PostRepository) Delete(ctx context.Context, id, rev string) error {
	_ = rev
	s := repo.LocalKey(id, repo.TypePost)

	q := database.Querier(ctx, r.db)
	var rowID string
	if err := q.QueryRowContext(ctx, `SELECT id FROM posts WHERE slug = $1`, s).Scan(&rowID); err != nil {
		return translate("delete post", s, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, rowID); err != nil {
		return translate("delete post", s, err)
	}
	return nil
}

// List returns posts of any status ordered by creation date.
func (r *PostRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Post, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p `+postOrderBy(opts.Descending)+` LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list posts", "", err)
	}
	return collectPosts(rows)
}

// ListByStatus returns posts with the given status.
func (r *PostRepository) ListByStatus(ctx context.Context, status models.Status, opts repo.ListOptions) ([]models.Post, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p WHERE p.status = $1 `+postOrderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, status, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list posts by status", string(status), err)
	}
	return collectPosts(rows)
}

// ListByCategory returns posts linked to the category with the given
// slug via the normalized link table.
func (r *PostRepository) ListByCategory(ctx context.Context, categorySlug string, opts repo.ListOptions) ([]models.Post, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p
		JOIN post_categories pc ON pc.post_id = p.id
		JOIN categories c ON c.id = pc.category_id
		WHERE c.slug = $1 `+postOrderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, categorySlug, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list posts by category", categorySlug, err)
	}
	return collectPosts(rows)
}

// ListByTag returns posts linked to the tag with the given slug.
func (r *PostRepository) ListByTag(ctx context.Context, tagSlug string, opts repo.ListOptions) ([]models.Post, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.slug = $1 `+postOrderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, tagSlug, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list posts by tag", tagSlug, err)
	}
	return collectPosts(rows)
}

// ListByAuthor returns posts by exact author match.
func (r *PostRepository) ListByAuthor(ctx context.Context, author string, opts repo.ListOptions) ([]models.Post, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p WHERE p.author = $1 `+postOrderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, author, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list posts by author", author, err)
	}
	return collectPosts(rows)
}

// Search runs the shared prefix-match full-text query over posts.
func (r *PostRepository) Search(ctx context.Context, query string, opts repo.ListOptions) ([]models.Post, error) {
	ts, ok := tsQuery(query)
	if !ok {
		return []models.Post{}, nil
	}

	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p
		WHERE to_tsvector('simple', p.search_text) @@ to_tsquery('simple', $1)
		`+postOrderBy(opts.Descending)+` LIMIT $2 OFFSET $3
	`, ts, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("search posts", query, err)
	}
	return collectPosts(rows)
}

// GetCategories returns every category with its post count.
func (r *PostRepository) GetCategories(ctx context.Context) ([]models.TermCount, error) {
	return r.termCounts(ctx, "categories", "post_categories", "category_id")
}

// GetTags returns every tag with its post count.
func (r *PostRepository) GetTags(ctx context.Context) ([]models.TermCount, error) {
	return r.termCounts(ctx, "tags", "post_tags", "tag_id")
}

func (r *PostRepository) termCounts(ctx context.Context, table, linkTable, linkCol string) ([]models.TermCount, error) {
	q := database.Querier(ctx, r.db)
	// table/linkTable/linkCol come from the two fixed call sites above,
	// never from user input.
	rows, err := q.QueryContext(ctx, `
		SELECT t.name, t.slug, COUNT(l.post_id)
		FROM `+table+` t
		LEFT JOIN `+linkTable+` l ON l.`+linkCol+` = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, translate("aggregate "+table, "", err)
	}
	defer rows.Close()

	var terms []models.TermCount
	for rows.Next() {
		var tc models.TermCount
		if err := rows.Scan(&tc.Name, &tc.Slug, &tc.PostCount); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		terms = append(terms, tc)
	}
	return terms, rows.Err()
}

// postOrderBy orders by creation date with the table alias used in
// post queries.
func postOrderBy(descending bool) string {
	if descending {
		return "ORDER BY p.created_at DESC"
	}
	return "ORDER BY p.created_at ASC"
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		pr, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, pr.post)
	}
	return items, rows.Err()
}
