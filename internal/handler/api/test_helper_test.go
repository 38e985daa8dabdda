// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/testutil"
	"github.com/nukgsz/schoolsite/internal/version"
)

// testAPI is a fully routed API backed by a migrated temporary database.
type testAPI struct {
	t         *testing.T
	db        *sql.DB
	queries   *store.Queries
	tokens    *auth.TokenService
	handler   *Handler
	router    http.Handler
	publicDir string

	editor      store.User
	admin       store.User
	editorToken string
	adminToken  string
}

const testPassword = "correct-horse-battery"

// newTestAPI builds the router the way main does, with an editor and an
// admin account that already hold tokens.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithConfig(t, Config{})
}

func newTestAPIWithConfig(t *testing.T, cfg Config) *testAPI {
	t.Helper()

	db := testutil.TestDB(t)
	tokens := auth.NewTokenService(testutil.TestSecret, time.Hour)

	if cfg.PublicDir == "" {
		cfg.PublicDir = t.TempDir()
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	if cfg.LoginProtection == nil {
		cfg.LoginProtection = middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit:       1000,
			IPBurst:           1000,
			MaxFailedAttempts: 3,
			LockoutDuration:   time.Minute,
			AttemptWindow:     time.Minute,
		})
	}
	cfg.Version = version.Info{Version: "test", GitCommit: "abc123"}
	h := NewHandler(db, tokens, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Language)
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)
	r.Route("/api", h.Routes)

	a := &testAPI{
		t:         t,
		db:        db,
		queries:   store.New(db),
		tokens:    tokens,
		handler:   h,
		router:    r,
		publicDir: cfg.PublicDir,
	}
	a.editor = testutil.CreateUser(t, db, "editor", testPassword, model.RoleEditor)
	a.admin = testutil.CreateUser(t, db, "admin", testPassword, model.RoleAdmin)
	a.editorToken = testutil.IssueToken(t, db, tokens, a.editor)
	a.adminToken = testutil.IssueToken(t, db, tokens, a.admin)
	return a
}

// do sends a request through the router. body may be nil, a string or any
// value that is encoded as JSON.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// upload sends a multipart request with one file part.
func (a *testAPI) upload(path, token, field, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		a.t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		a.t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		a.t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) ctx() context.Context {
	return context.Background()
}

// expectStatus fails the test when w does not carry want.
func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is a generic wrapper for API list responses with data and meta.
type listResponse[T any] struct {
	Data []T           `json:"data"`
	Meta *handler.Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v; body: %s", err, w.Body.String())
	}
	return resp.Data
}

// unmarshalList unmarshals a JSON list response body into the specified type.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *handler.Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v; body: %s", err, w.Body.String())
	}
	return resp.Data, resp.Meta
}

// errorMessage returns the "error" field of a JSON error body.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error: %v; body: %s", err, w.Body.String())
	}
	return resp.Error
}

// validationDetails returns the per-field messages of a 422 body.
func validationDetails(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp handler.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal validation error: %v; body: %s", err, w.Body.String())
	}
	return resp.Details
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
