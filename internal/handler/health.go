// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/version"
)

// readyTimeout bounds the database ping made by the readiness check.
const readyTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   info,
		startTime: time.Now(),
	}
}

// HealthStatus is the liveness body. The frontend banner reads it without
// an envelope.
type HealthStatus struct {
	Status string `json:"status"`
}

// ReadyStatus is the readiness body.
type ReadyStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Version   string    `json:"version,omitempty"`
	Commit    string    `json:"commit,omitempty"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, HealthStatus{Status: "ok"})
}

// Ready handles GET /api/health/ready. It answers 503 when the database
// cannot be reached.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := ReadyStatus{
		Status:    "ok",
		Database:  "ok",
		Version:   h.version.Version,
		Commit:    h.version.GitCommit,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		status.Status = "unavailable"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, status)
}
