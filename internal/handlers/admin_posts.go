// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/cache"
	"pagecraft/internal/middleware"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/slug"
)

// ListPosts handles GET /admin/api/posts. Filters: ?q= (search),
// ?status=, ?category=, ?tag=, ?author= — first match in that order.
func (a *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	q := r.URL.Query()

	var (
		posts []models.Post
		err   error
	)
	switch {
	case q.Get("q") != "":
		posts, err = a.repos.Posts.Search(r.Context(), q.Get("q"), opts)
	case q.Get("status") != "":
		status := models.Status(q.Get("status"))
		if !validStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		posts, err = a.repos.Posts.ListByStatus(r.Context(), status, opts)
	case q.Get("category") != "":
		posts, err = a.repos.Posts.ListByCategory(r.Context(), slug.Generate(q.Get("category")), opts)
	case q.Get("tag") != "":
		posts, err = a.repos.Posts.ListByTag(r.Context(), slug.Generate(q.Get("tag")), opts)
	case q.Get("author") != "":
		posts, err = a.repos.Posts.ListByAuthor(r.Context(), q.Get("author"), opts)
	default:
		posts, err = a.repos.Posts.List(r.Context(), opts)
	}
	if err != nil {
		respondRepoError(w, err)
		return
	}

	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: posts, Limit: opts.Limit, Offset: opts.Offset})
}

// GetPost handles GET /admin/api/posts/{slug}.
func (a *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.repos.Posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /admin/api/posts. The author defaults to the
// logged-in user's display name; publishing stamps PublishedAt when the
// client did not set one.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := decode(w, r, &post); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if post.Slug == "" {
		post.Slug = slug.Generate(post.Title)
	} else {
		post.Slug = slug.Generate(post.Slug)
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	if post.Author == "" {
		if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
			post.Author = sess.DisplayName
		}
	}
	if msg := validateContent(post.Title, post.Slug, post.Blocks, post.Meta); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if !validStatus(post.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := a.repos.Posts.Create(r.Context(), &post); err != nil {
		respondRepoError(w, err)
		return
	}
	a.invalidatePost(r, post.Slug)
	respondJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /admin/api/posts/{slug}.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := decode(w, r, &post); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	post.Slug = chi.URLParam(r, "slug")
	post.ID = repo.PostID(post.Slug)

	if post.Title != "" {
		if msg := validateContent(post.Title, post.Slug, post.Blocks, post.Meta); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if post.Status != "" && !validStatus(post.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := a.repos.Posts.Update(r.Context(), &post); err != nil {
		respondRepoError(w, err)
		return
	}
	a.invalidatePost(r, post.Slug)
	respondJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /admin/api/posts/{slug}.
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")
	err := a.repos.Posts.Delete(r.Context(), repo.PostID(postSlug), r.URL.Query().Get("rev"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	a.invalidatePost(r, postSlug)
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// invalidatePost drops the cached post body plus the category/tag
// aggregates, which change whenever a post's terms or status do.
func (a *Admin) invalidatePost(r *http.Request, postSlug string) {
	ctx := r.Context()
	a.cache.Invalidate(ctx, cache.PostKey(postSlug))
	a.cache.Invalidate(ctx, cache.ListKey("categories"))
	a.cache.Invalidate(ctx, cache.ListKey("tags"))
}
