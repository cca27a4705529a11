// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// ListContacts handles GET /admin/api/contacts with optional ?status=.
func (a *Admin) ListContacts(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)

	var (
		subs []models.ContactSubmission
		err  error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.ContactStatus(s)
		if !validContactStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		subs, err = a.repos.Contacts.ListByStatus(r.Context(), status, opts)
	} else {
		subs, err = a.repos.Contacts.List(r.Context(), opts)
	}
	if err != nil {
		respondRepoError(w, err)
		return
	}

	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: subs, Limit: opts.Limit, Offset: opts.Offset})
}

// GetContact handles GET /admin/api/contacts/{key}.
func (a *Admin) GetContact(w http.ResponseWriter, r *http.Request) {
	sub, err := a.repos.Contacts.GetByID(r.Context(), repo.ContactID(chi.URLParam(r, "key")))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// contactUpdateRequest moves a submission through its triage workflow.
// Only the status is mutable; what the visitor submitted stays as is.
type contactUpdateRequest struct {
	Status models.ContactStatus `json:"status"`
	Rev    string               `json:"rev,omitempty"`
}

// UpdateContact handles PUT /admin/api/contacts/{key}.
func (a *Admin) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactUpdateRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validContactStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	sub, err := a.repos.Contacts.GetByID(r.Context(), repo.ContactID(chi.URLParam(r, "key")))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	sub.Status = req.Status
	if req.Rev != "" {
		sub.Rev = req.Rev
	}

	if err := a.repos.Contacts.Update(r.Context(), sub); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// DeleteContact handles DELETE /admin/api/contacts/{key}.
func (a *Admin) DeleteContact(w http.ResponseWriter, r *http.Request) {
	err := a.repos.Contacts.Delete(r.Context(), repo.ContactID(chi.URLParam(r, "key")), r.URL.Query().Get("rev"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
