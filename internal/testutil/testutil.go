// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the school site backend.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/store"
)

// TestSecret is a JWT secret that passes config validation.
const TestSecret = "test-Secret-key-32-bytes-long!!!"

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary SQLite database (cgo driver) with all
// migrations applied. The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "school-test.db")
	db, err := store.NewDB(store.DriverSQLite3, dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite3); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// CreateUser inserts an active user with the given role and password.
func CreateUser(t *testing.T, db *sql.DB, username, password, role string) store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return user
}

// IssueToken signs a token for user and records it as a live session,
// the way a successful login does.
func IssueToken(t *testing.T, db *sql.DB, tokens *auth.TokenService, user store.User) string {
	t.Helper()

	token, expiresAt, err := tokens.Issue(auth.Subject{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = store.New(db).CreateAuthToken(context.Background(), store.CreateAuthTokenParams{
		UserID:    user.ID,
		TokenHash: auth.Digest(token),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}
	return token
}
