// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared infrastructure for handler integration
// tests. Tests run against the PostgreSQL backend and are skipped when
// PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"pagecraft/internal/cache"
	"pagecraft/internal/database"
	"pagecraft/internal/middleware"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/repo/postgres"
	"pagecraft/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pagecraft")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pagecraft")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Valkey client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "pub:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Repos    *repo.Repositories
	Sessions *session.Store
	Cache    *cache.ContentCache
	Admin    *Admin
	Auth     *Auth
	Public   *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired to the PostgreSQL backend.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	repos := postgres.New(db).Bundle()
	sessions := session.NewStore(vk, false)
	cc := cache.NewContentCache(vk, 1*time.Minute)

	return &testEnv{
		DB:       db,
		Valkey:   vk,
		Repos:    repos,
		Sessions: sessions,
		Cache:    cc,
		Admin:    NewAdmin(repos, cc),
		Auth:     NewAuth(sessions, repos.Users),
		Public:   NewPublic(repos, cc),
	}
}

// createTestUser inserts a user with a bcrypt-hashed password and
// removes it when the test finishes.
func (e *testEnv) createTestUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := e.Repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		e.Repos.Users.Delete(context.Background(), user.ID, "")
	})
	return user
}

// cleanPages removes test pages by slug when the test finishes.
func (e *testEnv) cleanPages(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			e.DB.Exec("DELETE FROM pages WHERE slug = $1", s)
		}
	})
}

// cleanPosts removes test posts and orphan terms when the test finishes.
func (e *testEnv) cleanPosts(t *testing.T, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			e.DB.Exec("DELETE FROM posts WHERE slug = $1", s)
		}
		e.DB.Exec("DELETE FROM categories WHERE id NOT IN (SELECT category_id FROM post_categories)")
		e.DB.Exec("DELETE FROM tags WHERE id NOT IN (SELECT tag_id FROM post_tags)")
	})
}

// cleanContacts removes test submissions by email when the test finishes.
func (e *testEnv) cleanContacts(t *testing.T, emails ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, em := range emails {
			e.DB.Exec("DELETE FROM contact_submissions WHERE email = $1", em)
		}
	})
}

// testSession builds session data for a user with 2FA complete.
func testSession(user *models.User) *session.Data {
	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   true,
	}
}

// withSession attaches session data to the request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
