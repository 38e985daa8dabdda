// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Role     string  `json:"role" validate:"omitempty,role"`
	IsActive *Flag   `json:"is_active"`
}

// UpdateUserRequest is the body of PUT /users/{id}. A non-empty password
// replaces the current one and revokes the user's tokens.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,role"`
	IsActive *Flag   `json:"is_active"`
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load users", err)
		return
	}
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userToResponse(u))
	}
	handler.WriteList(w, resp)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if u, ok := h.loadUser(w, r); ok {
		handler.WriteData(w, http.StatusOK, userToResponse(u))
	}
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "User")
		return store.User{}, false
	}
	u, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "User", err)
		return u, false
	}
	return u, true
}

// emailTaken reports whether another user already uses email.
func (h *Handler) emailTaken(r *http.Request, email string, userID int64) (bool, error) {
	u, err := h.queries.GetUserByLogin(r.Context(), email)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.ID != userID, nil
}

func passwordDetail(password string) map[string]string {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return map[string]string{"password": fmt.Sprintf("Must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}
	if details := passwordDetail(req.Password); details != nil {
		handler.WriteValidationError(w, details)
		return
	}
	role := req.Role
	if role == "" {
		role = model.RoleEditor
	}

	ctx := r.Context()
	if _, err := h.queries.GetUserByUsername(ctx, req.Username); err == nil {
		handler.WriteError(w, http.StatusConflict, "Username already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.serverError(w, r, "Failed to create user", err)
		return
	}
	email := nullString(req.Email, sql.NullString{})
	if email.Valid {
		taken, err := h.emailTaken(r, email.String, 0)
		if err != nil {
			h.serverError(w, r, "Failed to create user", err)
			return
		}
		if taken {
			handler.WriteError(w, http.StatusConflict, "Email already exists")
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serverError(w, r, "Failed to create user", err)
		return
	}
	now := h.now()
	u, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		FullName:     nullString(req.FullName, sql.NullString{}),
		Role:         role,
		IsActive:     flag(req.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		h.serverError(w, r, "Failed to create user", err)
		return
	}

	slog.Info("user created", "user_id", u.ID, "username", u.Username, "created_by", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusCreated, userToResponse(u))
}

// UpdateUser handles PUT /api/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}
	cur, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	password := trimmed(req.Password)
	if password != "" {
		if details := passwordDetail(password); details != nil {
			handler.WriteValidationError(w, details)
			return
		}
	}

	p := store.UpdateUserParams{
		ID:        cur.ID,
		Email:     nullString(req.Email, cur.Email),
		FullName:  nullString(req.FullName, cur.FullName),
		Role:      cur.Role,
		IsActive:  boolOr(req.IsActive, cur.IsActive),
		UpdatedAt: h.now(),
	}
	if role := trimmed(req.Role); role != "" {
		p.Role = role
	}

	ctx := r.Context()
	if p.Email.Valid && p.Email != cur.Email {
		taken, err := h.emailTaken(r, p.Email.String, cur.ID)
		if err != nil {
			h.serverError(w, r, "Failed to update user", err)
			return
		}
		if taken {
			handler.WriteError(w, http.StatusConflict, "Email already exists")
			return
		}
	}

	// The last active admin can be neither demoted nor deactivated.
	if cur.Role == model.RoleAdmin && cur.IsActive && (p.Role != model.RoleAdmin || !p.IsActive) {
		admins, err := h.queries.CountActiveAdmins(ctx)
		if err != nil {
			h.serverError(w, r, "Failed to update user", err)
			return
		}
		if admins <= 1 {
			handler.WriteError(w, http.StatusBadRequest, "Cannot demote or deactivate the last administrator")
			return
		}
	}

	u, err := h.queries.UpdateUser(ctx, p)
	if err != nil {
		h.serverError(w, r, "Failed to update user", err)
		return
	}

	revoke := !u.IsActive
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			h.serverError(w, r, "Failed to update password", err)
			return
		}
		if err := h.queries.UpdateUserPassword(ctx, u.ID, hash, p.UpdatedAt); err != nil {
			h.serverError(w, r, "Failed to update password", err)
			return
		}
		revoke = true
	}
	if revoke {
		if _, err := h.queries.DeleteUserAuthTokens(ctx, u.ID); err != nil {
			slog.Error("failed to revoke user tokens", "error", err, "user_id", u.ID)
		}
	}

	slog.Info("user updated", "user_id", u.ID, "updated_by", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusOK, userToResponse(u))
}

// DeleteUser handles DELETE /api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	target, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if target.ID == middleware.GetUserID(r) {
		handler.WriteError(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	ctx := r.Context()
	if target.Role == model.RoleAdmin && target.IsActive {
		admins, err := h.queries.CountActiveAdmins(ctx)
		if err != nil {
			h.serverError(w, r, "Failed to delete User", err)
			return
		}
		if admins <= 1 {
			handler.WriteError(w, http.StatusBadRequest, "Cannot delete the last administrator")
			return
		}
	}

	n, err := h.queries.DeleteUser(ctx, target.ID)
	if err == nil && n > 0 {
		slog.Info("user deleted", "user_id", target.ID, "username", target.Username,
			"deleted_by", middleware.GetUserID(r))
	}
	h.deleteResult(w, r, "User", n, err)
}
