// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 8

const msgInvalidCredentials = "Invalid credentials"

// UserResponse represents a user in API responses. The password hash is
// never exposed.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email"`
	FullName  *string    `json:"full_name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LoginRequest is the body of POST /auth/login. Username may also be an
// email address.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest is the body of POST /auth/change-password. The
// camelCase names are accepted from older admin clients.
type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	CurrentPasswordCamel string `json:"currentPassword"`
	NewPasswordCamel     string `json:"newPassword"`
}

func (req ChangePasswordRequest) current() string {
	if req.CurrentPassword != "" {
		return req.CurrentPassword
	}
	return req.CurrentPasswordCamel
}

func (req ChangePasswordRequest) next() string {
	if req.NewPassword != "" {
		return req.NewPassword
	}
	return req.NewPasswordCamel
}

func userToResponse(u store.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     ptr(u.Email),
		FullName:  ptr(u.FullName),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.LastLogin.Valid {
		resp.LastLogin = &u.LastLogin.Time
	}
	return resp
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	login := strings.TrimSpace(req.Username)
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}
	if login == "" || req.Password == "" {
		handler.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	client := h.audit.Client(middleware.GetClientIP(r), r.UserAgent())
	if locked, remaining := h.logins.IsLocked(login); locked {
		slog.Warn("login attempt on locked account", "login", login, "client", client)
		lockedOut(w, remaining)
		return
	}

	ctx := r.Context()
	user, err := h.queries.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.serverError(w, r, "Login failed", err)
		return
	}

	valid := false
	if err == nil && user.IsActive {
		valid, err = auth.CheckPassword(req.Password, user.PasswordHash)
		if err != nil {
			// Unrecognised hash formats, including plain text, never match.
			slog.Warn("password check error", "error", err, "user_id", user.ID)
			valid = false
		}
	}
	if !valid {
		slog.Debug("login failed", "login", login)
		if locked, lockDuration := h.logins.RecordFailure(login); locked {
			slog.Warn("account locked after failed logins", "login", login, "client", client)
			lockedOut(w, lockDuration)
			return
		}
		handler.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	h.logins.RecordSuccess(login)

	now := h.now()
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, user.ID, newHash, now); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	token, expiresAt, err := h.tokens.Issue(auth.Subject{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		h.serverError(w, r, "Login failed", err)
		return
	}
	if _, err := h.queries.CreateAuthToken(ctx, store.CreateAuthTokenParams{
		UserID:    user.ID,
		TokenHash: auth.Digest(token),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}); err != nil {
		h.serverError(w, r, "Login failed", err)
		return
	}

	if err := h.queries.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	} else {
		user.LastLogin = sql.NullTime{Time: now, Valid: true}
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username, "client", client)
	handler.WriteData(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userToResponse(user),
	})
}

func lockedOut(w http.ResponseWriter, remaining time.Duration) {
	minutes := int(remaining.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	handler.WriteError(w, http.StatusTooManyRequests,
		fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s)", minutes))
}

// Logout handles POST /api/auth/logout. The presented token is revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.queries.DeleteAuthTokenByHash(r.Context(), middleware.GetTokenDigest(r)); err != nil {
		h.serverError(w, r, "Logout failed", err)
		return
	}
	slog.Info("user logged out", "user_id", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handler.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	handler.WriteData(w, http.StatusOK, userToResponse(*user))
}

// ChangePassword handles POST /api/auth/change-password. Every other token
// of the user is revoked on success.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handler.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	current, next := req.current(), req.next()
	if current == "" || next == "" {
		handler.WriteError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		handler.WriteValidationError(w, map[string]string{
			"new_password": fmt.Sprintf("Must be at least %d characters", MinPasswordLength),
		})
		return
	}

	valid, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil {
		slog.Warn("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		handler.WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		h.serverError(w, r, "Failed to change password", err)
		return
	}
	ctx := r.Context()
	if err := h.queries.UpdateUserPassword(ctx, user.ID, hash, h.now()); err != nil {
		h.serverError(w, r, "Failed to change password", err)
		return
	}
	revoked, err := h.queries.DeleteUserAuthTokensExcept(ctx, user.ID, middleware.GetTokenDigest(r))
	if err != nil {
		slog.Error("failed to revoke tokens after password change", "error", err, "user_id", user.ID)
	}

	slog.Info("password changed", "user_id", user.ID, "revoked_tokens", revoked)
	handler.WriteData(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
