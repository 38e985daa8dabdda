// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers of the school site under /api.
package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/service"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/version"
)

// Config carries the settings the handlers need from the application
// configuration.
type Config struct {
	PublicDir      string
	MaxUploadBytes int64
	Location       *time.Location
	Development    bool
	DemoMode       bool
	Version        version.Info
	// LoginProtection throttles /auth/login. A default instance is created
	// when nil.
	LoginProtection *middleware.LoginProtection
	// Audit annotates login log records. Nil logs without annotations.
	Audit *service.LoginAuditor
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	queries *store.Queries
	tokens  *auth.TokenService
	uploads *service.UploadService
	nav     *service.NavigationService
	health  *handler.HealthHandler
	logins  *middleware.LoginProtection
	demo    *middleware.DemoGuard
	audit   *service.LoginAuditor

	loc       *time.Location
	maxUpload int64
	dev       bool
	now       func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(db *sql.DB, tokens *auth.TokenService, cfg Config) *Handler {
	queries := store.New(db)
	uploads := service.NewUploadService(queries, cfg.PublicDir)

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	logins := cfg.LoginProtection
	if logins == nil {
		logins = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}

	return &Handler{
		db:        db,
		queries:   queries,
		tokens:    tokens,
		uploads:   uploads,
		nav:       service.NewNavigationService(queries, uploads),
		health:    handler.NewHealthHandler(db, cfg.Version),
		logins:    logins,
		demo:      middleware.NewDemoGuard(cfg.DemoMode),
		audit:     cfg.Audit,
		loc:       loc,
		maxUpload: cfg.MaxUploadBytes,
		dev:       cfg.Development,
		now:       time.Now,
	}
}

// serverError logs err and writes a 500.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	handler.ServerError(w, r, h.dev, message, err)
}

// notFoundOrError writes 404 for sql.ErrNoRows and 500 otherwise.
func (h *Handler) notFoundOrError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		handler.WriteError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.serverError(w, r, "Failed to load "+what, err)
}

// deleteResult writes the response of a hard delete that affected n rows.
func (h *Handler) deleteResult(w http.ResponseWriter, r *http.Request, what string, n int64, err error) {
	if err != nil {
		h.serverError(w, r, "Failed to delete "+what, err)
		return
	}
	if n == 0 {
		handler.WriteError(w, http.StatusNotFound, what+" not found")
		return
	}
	handler.WriteData(w, http.StatusOK, map[string]string{"message": what + " deleted successfully"})
}

// notFound writes a 404 for what.
func notFound(w http.ResponseWriter, what string) {
	handler.WriteError(w, http.StatusNotFound, what+" not found")
}

// validate runs struct validation and writes a 422 when it fails.
// Returns false if the response has been written.
func validate(w http.ResponseWriter, v any) bool {
	if details := handler.Validate(v); details != nil {
		handler.WriteValidationError(w, details)
		return false
	}
	return true
}

// position resolves an optional position, defaulting to one past the
// current maximum of t.
func (h *Handler) position(r *http.Request, t store.OrderedTable, p *int64) (int64, error) {
	if p != nil {
		return *p, nil
	}
	return h.queries.NextPosition(r.Context(), t)
}
