// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"pagecraft/internal/models"
	"pagecraft/internal/session"
)

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createTestUser(t, "login-bad@test.local", "correct-password-1", models.RoleEditor)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"login-bad@test.local","password":"wrong"}`},
		{"unknown email", `{"email":"nobody@test.local","password":"correct-password-1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Auth.Login(rec, httptest.NewRequest("POST", "/admin/api/login", strings.NewReader(tt.body)))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("got status %d, want 401", rec.Code)
			}
		})
	}
}

func TestLoginAndTwoFAEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.createTestUser(t, "enroll@test.local", "correct-password-1", models.RoleEditor)

	// Login succeeds and reports that 2FA enrollment is pending.
	rec := httptest.NewRecorder()
	env.Auth.Login(rec, httptest.NewRequest("POST", "/admin/api/login",
		strings.NewReader(`{"email":"enroll@test.local","password":"correct-password-1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var login loginResponse
	json.Unmarshal(rec.Body.Bytes(), &login)
	if login.TwoFAEnrolled {
		t.Error("fresh user reported as enrolled")
	}
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("login did not set a session cookie")
	}

	sess := &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}

	// Setup returns a secret and a QR code.
	req := withSession(httptest.NewRequest("POST", "/admin/api/2fa/setup", nil), sess)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("setup: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var setup twoFASetupResponse
	json.Unmarshal(rec.Body.Bytes(), &setup)
	if setup.Secret == "" || setup.QRCode == "" {
		t.Fatal("setup response missing secret or QR code")
	}

	// A wrong code is rejected.
	req = withSession(httptest.NewRequest("POST", "/admin/api/2fa/verify",
		strings.NewReader(`{"code":"000000"}`)), sess)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad code: got status %d, want 401", rec.Code)
	}

	// The real code completes enrollment and stamps last login.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	req = withSession(httptest.NewRequest("POST", "/admin/api/2fa/verify",
		strings.NewReader(`{"code":"`+code+`"}`)), sess)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: got status %d, body %s", rec.Code, rec.Body.String())
	}

	stored, err := env.Repos.Users.GetByEmail(req.Context(), "enroll@test.local")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !stored.TOTPEnabled {
		t.Error("TOTP not enabled after successful verification")
	}
	if stored.LastLoginAt == nil {
		t.Error("LastLoginAt not stamped")
	}

	// Setup cannot run again once enrollment is complete.
	req = withSession(httptest.NewRequest("POST", "/admin/api/2fa/setup", nil), sess)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("re-setup: got status %d, want 409", rec.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.Me(rec, httptest.NewRequest("GET", "/admin/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}

	user := env.createTestUser(t, "me@test.local", "correct-password-1", models.RoleAdmin)
	rec = httptest.NewRecorder()
	env.Auth.Me(rec, withSession(httptest.NewRequest("GET", "/admin/api/me", nil), testSession(user)))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var me models.User
	json.Unmarshal(rec.Body.Bytes(), &me)
	if me.Email != "me@test.local" {
		t.Errorf("email = %q, want me@test.local", me.Email)
	}
}
