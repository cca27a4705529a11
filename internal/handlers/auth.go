// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"pagecraft/internal/middleware"
	"pagecraft/internal/repo"
	"pagecraft/internal/session"
)

// totpIssuer appears in authenticator apps next to the account name.
const totpIssuer = "Pagecraft"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    repo.UserRepository
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users repo.UserRepository) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
	}
}

// loginRequest is the JSON body for POST /admin/api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse tells the client which 2FA step comes next.
type loginResponse struct {
	TwoFARequired bool   `json:"two_fa_required"`
	TwoFAEnrolled bool   `json:"two_fa_enrolled"`
	UserID        string `json:"user_id"`
}

// Login checks credentials and creates a session. The session starts
// with 2FA incomplete; the client must follow up with setup or verify.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !repo.IsNotFound(err) {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// TwoFADone starts as false — the user must complete 2FA before the
	// Require2FA middleware lets them past.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		TwoFARequired: true,
		TwoFAEnrolled: !user.Needs2FASetup(),
		UserID:        user.ID,
	})
}

// twoFASetupResponse carries the enrollment secret and QR code.
type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"` // base64-encoded PNG
}

// TwoFASetup generates a TOTP secret for the logged-in user and returns
// it together with a QR code for authenticator apps. The secret is
// stored immediately but 2FA only becomes enforced after the first
// successful verification.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := a.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if user.TOTPEnabled {
		respondError(w, http.StatusConflict, "two-factor authentication already enabled")
		return
	}

	secret := key.Secret()
	user.TOTPSecret = &secret
	if err := a.users.Update(r.Context(), user); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: secret,
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// twoFAVerifyRequest is the JSON body for POST /admin/api/2fa/verify.
type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code and completes authentication.
// On the first successful verification after setup it enables TOTP
// enforcement for the account. Stamps the user's last login time.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req twoFAVerifyRequest
	if err := decode(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusConflict, "two-factor setup required first")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	// First successful verification completes enrollment.
	now := time.Now().UTC()
	user.TOTPEnabled = true
	user.LastLoginAt = &now
	if err := a.users.Update(r.Context(), user); err != nil {
		slog.Error("enable totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// Logout destroys the session and clears the cookie.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	respondJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Me returns the profile of the logged-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
