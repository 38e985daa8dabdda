// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/logging"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
)

// ContextKey is a type for context keys used in this package.
type ContextKey string

const (
	// ContextKeyUser is the context key for the authenticated user.
	ContextKeyUser ContextKey = "user"
	// ContextKeyTokenDigest is the context key for the digest of the presented bearer token.
	ContextKeyTokenDigest ContextKey = "token_digest"
)

// tokenHeaders are checked in order. Some shared hosts strip Authorization
// before it reaches the application, so proxies forward it under other names.
var tokenHeaders = []string{"Authorization", "X-Authorization", "X-Forwarded-Authorization"}

// BearerToken extracts the bearer token from the request headers.
func BearerToken(r *http.Request) string {
	for _, h := range tokenHeaders {
		v := strings.TrimSpace(r.Header.Get(h))
		if v == "" {
			continue
		}
		if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
			if token := strings.TrimSpace(v[7:]); token != "" {
				return token
			}
		}
	}
	return ""
}

// Authenticate validates the bearer token, checks that it has not been
// revoked and that its user is still active, and stores the user in the
// request context. Requests that fail any check get 401.
func Authenticate(queries *store.Queries, tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				slog.Debug("rejected bearer token", "error", err, "path", r.URL.Path)
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := r.Context()
			digest := auth.Digest(token)
			if _, err := queries.GetValidAuthToken(ctx, digest, time.Now()); err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					slog.Error("failed to look up auth token", "error", err)
				}
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := queries.GetUserByID(ctx, claims.UserID)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					slog.Error("failed to load user for token", "error", err, "user_id", claims.UserID)
				}
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if !user.IsActive {
				slog.Warn("inactive user presented a token", "user_id", user.ID, "username", user.Username)
				WriteError(w, http.StatusUnauthorized, "Account is disabled")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyTokenDigest, digest)
			ctx = logging.WithUser(ctx, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetTokenDigest returns the digest of the token that authenticated the request.
func GetTokenDigest(r *http.Request) string {
	digest, _ := r.Context().Value(ContextKeyTokenDigest).(string)
	return digest
}

// roleLevel returns the privilege level for a role.
// Higher number = more privileges.
func roleLevel(role string) int {
	return model.RoleLevel(role)
}

// RequireRole returns middleware that requires at least the given role.
// Must be mounted after Authenticate.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	minLevel := roleLevel(minRole)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if roleLevel(user.Role) < minLevel {
				slog.Warn("access denied",
					"user_id", user.ID,
					"role", user.Role,
					"required_role", minRole,
					"path", r.URL.Path,
				)
				WriteError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that requires admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireEditor returns middleware that requires editor or admin.
func RequireEditor() func(http.Handler) http.Handler {
	return RequireRole(model.RoleEditor)
}
