// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nukgsz/schoolsite/internal/testutil"
	"github.com/nukgsz/schoolsite/internal/version"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), version.Info{Version: "v1.0.0"})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestReady(t *testing.T) {
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, version.Info{Version: "v1.0.0", GitCommit: "abc1234"})

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status ReadyStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "ok" || status.Database != "ok" || status.Version != "v1.0.0" {
		t.Errorf("status = %+v", status)
	}

	_ = db.Close()
	w = httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status after close = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"unavailable"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
