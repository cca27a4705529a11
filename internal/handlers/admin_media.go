// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagecraft/internal/middleware"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// mediaCreateRequest registers metadata for an uploaded file. The file
// itself lives outside this system; only the record is managed here.
type mediaCreateRequest struct {
	OriginalName string  `json:"original_name"`
	ContentType  string  `json:"content_type"`
	SizeBytes    int64   `json:"size_bytes"`
	PublicURL    string  `json:"public_url"`
	AltText      *string `json:"alt_text,omitempty"`
}

// ListMedia handles GET /admin/api/media.
func (a *Admin) ListMedia(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	media, err := a.repos.Media.List(r.Context(), opts)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: media, Limit: opts.Limit, Offset: opts.Offset})
}

// GetMedia handles GET /admin/api/media/{filename}.
func (a *Admin) GetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := a.repos.Media.GetByFilename(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// CreateMedia handles POST /admin/api/media. The stored filename is
// system-generated (UUID plus the original extension) so uploads can
// never collide or traverse paths.
func (a *Admin) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaCreateRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.OriginalName) == "" {
		respondError(w, http.StatusBadRequest, "original_name is required")
		return
	}
	if req.ContentType == "" {
		respondError(w, http.StatusBadRequest, "content_type is required")
		return
	}
	if req.SizeBytes < 0 {
		respondError(w, http.StatusBadRequest, "size_bytes must not be negative")
		return
	}
	if req.AltText != nil && utf8.RuneCountInString(*req.AltText) > maxAltTextLen {
		respondError(w, http.StatusBadRequest, "alt_text is too long (max 500 characters)")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ext := strings.ToLower(path.Ext(req.OriginalName))
	m := models.Media{
		Filename:     uuid.NewString() + ext,
		OriginalName: req.OriginalName,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
		PublicURL:    req.PublicURL,
		AltText:      req.AltText,
		UploaderID:   sess.UserID,
	}
	if err := a.repos.Media.Create(r.Context(), &m); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

// mediaUpdateRequest patches mutable media metadata. Upload facts
// (filename, content type, size, uploader) are immutable.
type mediaUpdateRequest struct {
	AltText   *string `json:"alt_text,omitempty"`
	PublicURL string  `json:"public_url,omitempty"`
	Rev       string  `json:"rev,omitempty"`
}

// UpdateMedia handles PUT /admin/api/media/{filename}.
func (a *Admin) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaUpdateRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AltText != nil && utf8.RuneCountInString(*req.AltText) > maxAltTextLen {
		respondError(w, http.StatusBadRequest, "alt_text is too long (max 500 characters)")
		return
	}

	filename := chi.URLParam(r, "filename")
	m, err := a.repos.Media.GetByFilename(r.Context(), filename)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if req.AltText != nil {
		m.AltText = req.AltText
	}
	if req.PublicURL != "" {
		m.PublicURL = req.PublicURL
	}
	if req.Rev != "" {
		m.Rev = req.Rev
	}

	if err := a.repos.Media.Update(r.Context(), m); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// DeleteMedia handles DELETE /admin/api/media/{filename}.
func (a *Admin) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	err := a.repos.Media.Delete(r.Context(), repo.MediaID(filename), r.URL.Query().Get("rev"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
