// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"pagecraft/internal/middleware"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// minPasswordLen is the minimum length for CMS account passwords.
const minPasswordLen = 12

// userCreateRequest is the JSON body for POST /admin/api/users.
type userCreateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// ListUsers handles GET /admin/api/users. Admin only.
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	users, err := a.repos.Users.List(r.Context(), opts)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	opts = opts.Normalize()
	respondJSON(w, http.StatusOK, listResponse{Items: users, Limit: opts.Limit, Offset: opts.Offset})
}

// GetUser handles GET /admin/api/users/{email}.
func (a *Admin) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.repos.Users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /admin/api/users. The password is bcrypt
// hashed before it reaches the repository.
func (a *Admin) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}
	if len(req.Password) < minPasswordLen {
		respondError(w, http.StatusBadRequest, "password must be at least 12 characters")
		return
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleEditor
	}
	if role != models.RoleAdmin && role != models.RoleEditor {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := models.User{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := a.repos.Users.Create(r.Context(), &user); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// userUpdateRequest patches mutable account fields. Email is the
// account's identity and cannot change.
type userUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	Role        *string `json:"role,omitempty"`
	ResetTOTP   bool    `json:"reset_totp,omitempty"`
	Rev         string  `json:"rev,omitempty"`
}

// UpdateUser handles PUT /admin/api/users/{email}.
func (a *Admin) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.repos.Users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		respondRepoError(w, err)
		return
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			respondError(w, http.StatusBadRequest, "password must be at least 12 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if role != models.RoleAdmin && role != models.RoleEditor {
			respondError(w, http.StatusBadRequest, "unknown role")
			return
		}
		user.Role = role
	}
	// Resetting 2FA forces the user back through enrollment.
	if req.ResetTOTP {
		user.TOTPSecret = nil
		user.TOTPEnabled = false
	}
	if req.Rev != "" {
		user.Rev = req.Rev
	}

	if err := a.repos.Users.Update(r.Context(), user); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /admin/api/users/{email}. Admins cannot
// delete their own account.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.Email == email {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	err := a.repos.Users.Delete(r.Context(), repo.UserID(email), r.URL.Query().Get("rev"))
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
