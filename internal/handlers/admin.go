// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/cache"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/slug"
)

// Admin groups the content-management HTTP handlers. Every handler in
// this group sits behind the session auth middleware chain.
type Admin struct {
	repos *repo.Repositories
	cache *cache.ContentCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(repos *repo.Repositories, cc *cache.ContentCache) *Admin {
	return &Admin{
		repos: repos,
		cache: cc,
	}
}

// listResponse wraps a listing result with its pagination window.
type listResponse struct {
	Items  any `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListPages handles GET /admin/api/pages. Supports ?status= filtering
// and ?q= full-text search; the two are mutually exclusive, with
// search taking precedence.
func (a *Admin) ListPages(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)

	var (
		pages []models.Page
		err   error
	)
	switch {
	case r.URL.Query().Get("q") != "":
		pages, err = a.repos.Pages.Search(r.Context(), r.URL.Query().Get("q"), opts)
	case r.URL.Query().Get("status") != "":
		status := models.Status(r.URL.Query().Get("status"))
		if !validStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		pages, err = a.repos.Pages.ListByStatus(r.Context(), status, opts)
	default:
		pages, err = a.repos.Pages.List(r.Context(), opts)
	}
	if err != nil {
		respondRepoError(w, err)
		return
	}

	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: pages, Limit: opts.Limit, Offset: opts.Offset})
}

// GetPage handles GET /admin/api/pages/{slug}.
func (a *Admin) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := a.repos.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// CreatePage handles POST /admin/api/pages. When the slug is omitted
// it is generated from the title.
func (a *Admin) CreatePage(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if err := decode(w, r, &page); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if page.Slug == "" {
		page.Slug = slug.Generate(page.Title)
	} else {
		page.Slug = slug.Generate(page.Slug)
	}
	if page.Status == "" {
		page.Status = models.StatusDraft
	}
	if msg := validateContent(page.Title, page.Slug, page.Blocks, page.Meta); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if !validStatus(page.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := a.repos.Pages.Create(r.Context(), &page); err != nil {
		respondRepoError(w, err)
		return
	}
	a.cache.Invalidate(r.Context(), cache.PageKey(page.Slug))
	respondJSON(w, http.StatusCreated, page)
}

// UpdatePage handles PUT /admin/api/pages/{slug}. The request body is
// the full page document; the CouchDB backend requires the rev field
// to match the stored revision, the relational backend treats the body
// as a patch.
func (a *Admin) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var page models.Page
	if err := decode(w, r, &page); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	page.Slug = chi.URLParam(r, "slug")
	page.ID = repo.PageID(page.Slug)

	if page.Title != "" {
		if msg := validateContent(page.Title, page.Slug, page.Blocks, page.Meta); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if page.Status != "" && !validStatus(page.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := a.repos.Pages.Update(r.Context(), &page); err != nil {
		respondRepoError(w, err)
		return
	}
	a.cache.Invalidate(r.Context(), cache.PageKey(page.Slug))
	respondJSON(w, http.StatusOK, page)
}

// DeletePage handles DELETE /admin/api/pages/{slug}. An optional ?rev=
// parameter carries the revision precondition for the CouchDB backend.
func (a *Admin) DeletePage(w http.ResponseWriter, r *http.Request) {
	pageSlug := chi.URLParam(r, "slug")
	err := a.repos.Pages.Delete(r.Context(), repo.PageID(pageSlug), r.URL.Query().Get("rev"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	a.cache.Invalidate(r.Context(), cache.PageKey(pageSlug))
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
