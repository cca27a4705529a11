// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: admin CRUD for every
// content entity, session-based authentication with TOTP 2FA, and the
// public read endpoints that serve published content.
//
// Handlers are grouped by area (Auth, Admin, Public) and receive their
// dependencies through constructors; nothing reaches for a global.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"pagecraft/internal/repo"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondRepoError maps a repository error to the matching HTTP status:
// not-found to 404, conflict to 409, anything else to a logged 500.
func respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case repo.IsNotFound(err):
		respondError(w, http.StatusNotFound, "not found")
	case repo.IsConflict(err):
		respondError(w, http.StatusConflict, "conflict")
	default:
		slog.Error("repository operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// maxBodyBytes caps JSON request bodies. Content blocks can be large
// but nothing legitimate approaches a megabyte.
const maxBodyBytes = 1 << 20

// decode reads a JSON request body into dst. Unknown fields are
// rejected so typos in client payloads fail loudly instead of being
// silently dropped.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second token means trailing garbage after the JSON value.
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// listOptions extracts pagination parameters from the query string.
// Invalid or missing values fall back to repository defaults.
func listOptions(r *http.Request) repo.ListOptions {
	q := r.URL.Query()
	opts := repo.ListOptions{
		Descending: q.Get("order") != "asc",
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		opts.Offset = n
	}
	return opts
}
