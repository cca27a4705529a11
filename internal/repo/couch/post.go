// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"sort"
	"time"

	kivik "github.com/go-kivik/kivik/v4"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/slug"
)

// PostRepository implements repo.PostRepository on CouchDB. Posts live
// under "post:{slug}" documents; categories and tags are plain string
// arrays on the document, and the per-term listings and counts come
// from MapReduce views keyed by the normalized term slug.
type PostRepository struct {
	c *Client
}

func NewPostRepository(c *Client) *PostRepository {
	return &PostRepository{c: c}
}

type postDoc struct {
	ID            string                `json:"_id"`
	Rev           string                `json:"_rev,omitempty"`
	Type          string                `json:"type"`
	Slug          string                `json:"slug"`
	Title         string                `json:"title"`
	Excerpt       *string               `json:"excerpt,omitempty"`
	Author        string                `json:"author"`
	Blocks        []models.ContentBlock `json:"blocks"`
	Meta          models.SEOMeta        `json:"meta"`
	Categories    []string              `json:"categories,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	FeaturedImage *string               `json:"featured_image,omitempty"`
	Status        models.Status         `json:"status"`
	PublishedAt   *time.Time            `json:"published_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func (d *postDoc) toModel() models.Post {
	return models.Post{
		ID:            d.ID,
		Slug:          d.Slug,
		Title:         d.Title,
		Excerpt:       d.Excerpt,
		Author:        d.Author,
		Blocks:        d.Blocks,
		Meta:          d.Meta,
		Categories:    d.Categories,
		Tags:          d.Tags,
		FeaturedImage: d.FeaturedImage,
		Status:        d.Status,
		PublishedAt:   d.PublishedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Rev:           d.Rev,
	}
}

func postToDoc(p *models.Post) postDoc {
	return postDoc{
		ID:            repo.PostID(p.Slug),
		Rev:           p.Rev,
		Type:          repo.TypePost,
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Author:        p.Author,
		Blocks:        p.Blocks,
		Meta:          p.Meta,
		Categories:    p.Categories,
		Tags:          p.Tags,
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.ID = repo.PostID(post.Slug)

	doc := postToDoc(post)
	doc.Rev = ""
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("create post", doc.ID, err)
	}
	post.Rev = rev
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.GetBySlug(ctx, repo.LocalKey(id, repo.TypePost))
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	docID := repo.PostID(slug)
	var doc postDoc
	if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, translate("get post", docID, err)
	}
	post := doc.toModel()
	return &post, nil
}

// Update replaces the stored document wholesale, gated on the post's
// Rev matching the current revision. Category and tag membership is
// whatever the supplied document carries; the term views re-index on
// the next read.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	doc := postToDoc(post)
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("update post", doc.ID, err)
	}
	post.ID = doc.ID
	post.Rev = rev
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id, rev string) error {
	docID := repo.PostID(repo.LocalKey(id, repo.TypePost))
	if rev == "" {
		var doc postDoc
		if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
			return translate("delete post", docID, err)
		}
		rev = doc.Rev
	}
	if _, err := r.c.db.Delete(ctx, docID, rev); err != nil {
		return translate("delete post", docID, err)
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Post, error) {
	rows := r.c.queryView(ctx, "posts", "by_created", listParams(opts))
	return collectPosts(rows)
}

func (r *PostRepository) ListByStatus(ctx context.Context, status models.Status, opts repo.ListOptions) ([]models.Post, error) {
	rows := r.c.queryView(ctx, "posts", "by_status", rangeParams(string(status), opts))
	return collectPosts(rows)
}

func (r *PostRepository) ListByCategory(ctx context.Context, categorySlug string, opts repo.ListOptions) ([]models.Post, error) {
	rows := r.c.queryView(ctx, "posts", "by_category", rangeParams(categorySlug, opts))
	return collectPosts(rows)
}

func (r *PostRepository) ListByTag(ctx context.Context, tagSlug string, opts repo.ListOptions) ([]models.Post, error) {
	rows := r.c.queryView(ctx, "posts", "by_tag", rangeParams(tagSlug, opts))
	return collectPosts(rows)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, author string, opts repo.ListOptions) ([]models.Post, error) {
	rows := r.c.queryView(ctx, "posts", "by_author", rangeParams(author, opts))
	return collectPosts(rows)
}

func (r *PostRepository) Search(ctx context.Context, query string, opts repo.ListOptions) ([]models.Post, error) {
	ids, err := r.c.searchIDs(ctx, "posts", query)
	if err != nil {
		return nil, err
	}
	ids = pageWindow(ids, opts)
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return collectPosts(r.c.fetchDocs(ctx, ids))
}

func (r *PostRepository) GetCategories(ctx context.Context) ([]models.TermCount, error) {
	return r.termCounts(ctx, "categories")
}

func (r *PostRepository) GetTags(ctx context.Context) ([]models.TermCount, error) {
	return r.termCounts(ctx, "tags")
}

// termCounts reads a grouped _sum reduce view keyed by display name.
// Names that normalize to the same slug are merged into one entry; the
// first name encountered (CouchDB key order) wins the display spot.
func (r *PostRepository) termCounts(ctx context.Context, view string) ([]models.TermCount, error) {
	rows := r.c.queryView(ctx, "posts", view, map[string]interface{}{"group": true})
	defer rows.Close()

	bySlug := map[string]*models.TermCount{}
	for rows.Next() {
		var name string
		if err := rows.ScanKey(&name); err != nil {
			return nil, translate("count "+view, "", err)
		}
		var count int
		if err := rows.ScanValue(&count); err != nil {
			return nil, translate("count "+view, "", err)
		}
		s := slug.Generate(name)
		if tc, ok := bySlug[s]; ok {
			tc.PostCount += count
		} else {
			bySlug[s] = &models.TermCount{Name: name, Slug: s, PostCount: count}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translate("count "+view, "", err)
	}

	counts := make([]models.TermCount, 0, len(bySlug))
	for _, tc := range bySlug {
		counts = append(counts, *tc)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Name < counts[j].Name })
	return counts, nil
}

func collectPosts(rows *kivik.ResultSet) ([]models.Post, error) {
	defer rows.Close()
	posts := []models.Post{}
	for rows.Next() {
		var doc postDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, translate("scan post", "", err)
		}
		posts = append(posts, doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list posts", "", err)
	}
	return posts, nil
}
