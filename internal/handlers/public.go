// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/cache"
	"pagecraft/internal/markdown"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/slug"
)

// Public groups the handlers for the unauthenticated content API.
// Published page and post bodies are cached in Valkey; listings hit the
// repository on every request.
type Public struct {
	repos *repo.Repositories
	cache *cache.ContentCache
}

// NewPublic creates a new Public handler group.
func NewPublic(repos *repo.Repositories, cc *cache.ContentCache) *Public {
	return &Public{
		repos: repos,
		cache: cc,
	}
}

// renderBlocks converts markdown content blocks to HTML, leaving every
// other block type untouched. The rendered HTML is added alongside the
// source so clients can choose which to consume.
func renderBlocks(blocks []models.ContentBlock) []models.ContentBlock {
	out := make([]models.ContentBlock, len(blocks))
	for i, b := range blocks {
		out[i] = b
		if b.Type != "markdown" {
			continue
		}
		fields := make(map[string]string, len(b.Fields)+1)
		for k, v := range b.Fields {
			fields[k] = v
		}
		html, err := markdown.ToHTML(b.Fields["content"])
		if err != nil {
			slog.Warn("markdown render failed", "error", err)
		} else {
			fields["html"] = html
		}
		out[i].Fields = fields
	}
	return out
}

// writeCached sends a previously cached JSON body.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.Write(body)
}

// respondAndCache marshals v, stores it under key, and sends it.
func (p *Public) respondAndCache(w http.ResponseWriter, r *http.Request, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("response encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	p.cache.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// GetPage handles GET /api/pages/{slug}. Drafts and archived pages are
// indistinguishable from missing ones.
func (p *Public) GetPage(w http.ResponseWriter, r *http.Request) {
	pageSlug := chi.URLParam(r, "slug")

	if body, ok := p.cache.Get(r.Context(), cache.PageKey(pageSlug)); ok {
		writeCached(w, body)
		return
	}

	page, err := p.repos.Pages.GetBySlug(r.Context(), pageSlug)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if !page.IsPublished() {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	page.Blocks = renderBlocks(page.Blocks)
	page.Rev = ""
	p.respondAndCache(w, r, cache.PageKey(pageSlug), page)
}

// GetPost handles GET /api/posts/{slug}. A post is public only when
// its status is published and its publish time has passed.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	if body, ok := p.cache.Get(r.Context(), cache.PostKey(postSlug)); ok {
		writeCached(w, body)
		return
	}

	post, err := p.repos.Posts.GetBySlug(r.Context(), postSlug)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if !post.IsPublished() {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	post.Blocks = renderBlocks(post.Blocks)
	post.Rev = ""
	p.respondAndCache(w, r, cache.PostKey(postSlug), post)
}

// ListPosts handles GET /api/posts. Filters: ?q=, ?category=, ?tag=,
// ?author=. Only published posts are returned; filtered listings are
// narrowed after the repository query, so a window can come back short
// when it overlaps unpublished posts.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	q := r.URL.Query()

	var (
		posts []models.Post
		err   error
	)
	switch {
	case q.Get("q") != "":
		posts, err = p.repos.Posts.Search(r.Context(), q.Get("q"), opts)
	case q.Get("category") != "":
		posts, err = p.repos.Posts.ListByCategory(r.Context(), slug.Generate(q.Get("category")), opts)
	case q.Get("tag") != "":
		posts, err = p.repos.Posts.ListByTag(r.Context(), slug.Generate(q.Get("tag")), opts)
	case q.Get("author") != "":
		posts, err = p.repos.Posts.ListByAuthor(r.Context(), q.Get("author"), opts)
	default:
		posts, err = p.repos.Posts.ListByStatus(r.Context(), models.StatusPublished, opts)
	}
	if err != nil {
		respondRepoError(w, err)
		return
	}

	visible := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if !post.IsPublished() {
			continue
		}
		post.Blocks = nil // listings carry summaries, not bodies
		post.Rev = ""
		visible = append(visible, post)
	}

	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: visible, Limit: opts.Limit, Offset: opts.Offset})
}

// searchResponse groups public search hits by entity.
type searchResponse struct {
	Pages  []models.Page `json:"pages"`
	Posts  []models.Post `json:"posts"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Search handles GET /api/search. Both pages and posts are searched;
// only published content is returned, as summaries without bodies.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	opts := listOptions(r)

	pages, err := p.repos.Pages.Search(r.Context(), q, opts)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	posts, err := p.repos.Posts.Search(r.Context(), q, opts)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	resp := searchResponse{Pages: []models.Page{}, Posts: []models.Post{}}
	for _, page := range pages {
		if page.Status != models.StatusPublished {
			continue
		}
		page.Blocks = nil
		page.Rev = ""
		resp.Pages = append(resp.Pages, page)
	}
	for _, post := range posts {
		if !post.IsPublished() {
			continue
		}
		post.Blocks = nil
		post.Rev = ""
		resp.Posts = append(resp.Posts, post)
	}

	opts = opts.Normalize()
	resp.Limit = opts.Limit
	resp.Offset = opts.Offset
	respondJSON(w, http.StatusOK, resp)
}

// Categories handles GET /api/categories.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.termCounts(w, r, cache.ListKey("categories"), p.repos.Posts.GetCategories)
}

// Tags handles GET /api/tags.
func (p *Public) Tags(w http.ResponseWriter, r *http.Request) {
	p.termCounts(w, r, cache.ListKey("tags"), p.repos.Posts.GetTags)
}

func (p *Public) termCounts(w http.ResponseWriter, r *http.Request, key string, fetch func(ctx context.Context) ([]models.TermCount, error)) {
	if body, ok := p.cache.Get(r.Context(), key); ok {
		writeCached(w, body)
		return
	}
	terms, err := fetch(r.Context())
	if err != nil {
		respondRepoError(w, err)
		return
	}
	p.respondAndCache(w, r, key, terms)
}

// contactRequest is the JSON body for POST /api/contact.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}

// SubmitContact handles the public contact form. The client IP and
// user agent are captured for spam triage.
func (p *Public) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateContact(req.Name, req.Email, req.Company, req.Message); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sub := models.ContactSubmission{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Company:   strings.TrimSpace(req.Company),
		Message:   strings.TrimSpace(req.Message),
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := p.repos.Contacts.Create(r.Context(), &sub); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}

// clientIP extracts the originating address, honoring the first hop in
// X-Forwarded-For when a proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
