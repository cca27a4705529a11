// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Pagecraft server. It loads
// configuration, wires the selected storage backend behind the
// repository interfaces, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pagecraft/internal/cache"
	"pagecraft/internal/config"
	"pagecraft/internal/database"
	"pagecraft/internal/handlers"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
	"pagecraft/internal/repo/couch"
	"pagecraft/internal/repo/postgres"
	"pagecraft/internal/router"
	"pagecraft/internal/session"
)

func main() {
	// Structured logger — outputs text in every environment.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.StorageBackend,
	)

	ctx := context.Background()

	// Wire the configured storage backend behind the shared repository
	// interfaces. Everything downstream is backend-agnostic.
	var repos *repo.Repositories
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		repos = postgres.New(db).Bundle()

	case config.BackendCouchDB:
		// Connect also bootstraps the design documents.
		client, err := couch.Connect(ctx, cfg.CouchDSN(), cfg.CouchDBName)
		if err != nil {
			slog.Error("failed to connect to couchdb", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		repos = couch.New(client).Bundle()
	}

	// Seed the initial admin account when the user table is empty.
	if err := seedAdmin(ctx, repos.Users, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (sessions + published-content cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure
	// (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	contentCache := cache.NewContentCache(valkeyClient, cache.DefaultContentTTL)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(repos, contentCache)
	authHandlers := handlers.NewAuth(sessionStore, repos.Users)
	publicHandlers := handlers.NewPublic(repos, contentCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// seedAdmin creates the initial admin account when no users exist yet.
// Runs through the repository interfaces, so it behaves the same on
// both backends.
func seedAdmin(ctx context.Context, users repo.UserRepository, email, password string) error {
	existing, err := users.List(ctx, repo.ListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if password == "" {
		slog.Warn("admin seed skipped: ADMIN_PASSWORD not set")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	slog.Info("seeded initial admin user", "email", email)
	return nil
}
