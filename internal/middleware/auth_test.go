// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/testutil"
)

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		user := GetUser(req)
		if user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := store.User{
			ID:       123,
			Username: "teacher",
			Role:     "admin",
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if user.Username != "teacher" {
			t.Errorf("GetUser().Username = %q, want %q", user.Username, "teacher")
		}
	})
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req); id != 0 {
		t.Errorf("GetUserID() = %d, want 0", id)
	}

	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, store.User{ID: 456}))
	if id := GetUserID(req); id != 456 {
		t.Errorf("GetUserID() = %d, want 456", id)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"none", nil, ""},
		{"authorization", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"lowercase scheme", map[string]string{"Authorization": "bearer abc"}, "abc"},
		{"basic scheme ignored", map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}, ""},
		{"empty bearer", map[string]string{"Authorization": "Bearer   "}, ""},
		{"x-authorization fallback", map[string]string{"X-Authorization": "Bearer xyz"}, "xyz"},
		{"forwarded fallback", map[string]string{"X-Forwarded-Authorization": "Bearer fwd"}, "fwd"},
		{
			"authorization wins",
			map[string]string{"Authorization": "Bearer first", "X-Authorization": "Bearer second"},
			"first",
		},
		{
			"invalid authorization falls through",
			map[string]string{"Authorization": "Token nope", "X-Authorization": "Bearer second"},
			"second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := BearerToken(req); got != tt.want {
				t.Errorf("BearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

// authTestEnv wires Authenticate against a migrated database.
type authTestEnv struct {
	db      *sql.DB
	tokens  *auth.TokenService
	handler http.Handler
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	db := testutil.TestDB(t)
	tokens := auth.NewTokenService(testutil.TestSecret, time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			t.Error("GetUser() = nil inside authenticated handler")
			return
		}
		if GetTokenDigest(r) == "" {
			t.Error("GetTokenDigest() is empty inside authenticated handler")
		}
		_, _ = w.Write([]byte(user.Username))
	})

	return &authTestEnv{
		db:      db,
		tokens:  tokens,
		handler: Authenticate(store.New(db), tokens)(next),
	}
}

func (e *authTestEnv) do(header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func assertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int) {
	t.Helper()
	if rr.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, wantStatus, rr.Body.String())
	}
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	env := newAuthTestEnv(t)
	user := testutil.CreateUser(t, env.db, "editor1", "password123", "editor")
	token := testutil.IssueToken(t, env.db, env.tokens, user)

	for _, header := range []string{"Authorization", "X-Authorization", "X-Forwarded-Authorization"} {
		t.Run(header, func(t *testing.T) {
			rr := env.do(header, "Bearer "+token)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}
			if rr.Body.String() != "editor1" {
				t.Errorf("body = %q, want editor1", rr.Body.String())
			}
		})
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	env := newAuthTestEnv(t)
	assertErrorBody(t, env.do("", ""), http.StatusUnauthorized)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	env := newAuthTestEnv(t)
	assertErrorBody(t, env.do("Authorization", "Bearer not-a-jwt"), http.StatusUnauthorized)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	env := newAuthTestEnv(t)
	user := testutil.CreateUser(t, env.db, "editor1", "password123", "editor")
	token := testutil.IssueToken(t, env.db, env.tokens, user)

	if _, err := store.New(env.db).DeleteAuthTokenByHash(context.Background(), auth.Digest(token)); err != nil {
		t.Fatalf("DeleteAuthTokenByHash: %v", err)
	}

	assertErrorBody(t, env.do("Authorization", "Bearer "+token), http.StatusUnauthorized)
}

func TestAuthenticate_UnstoredToken(t *testing.T) {
	env := newAuthTestEnv(t)
	user := testutil.CreateUser(t, env.db, "editor1", "password123", "editor")

	// Correctly signed but never recorded by a login.
	token, _, err := env.tokens.Issue(auth.Subject{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	assertErrorBody(t, env.do("Authorization", "Bearer "+token), http.StatusUnauthorized)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	env := newAuthTestEnv(t)
	user := testutil.CreateUser(t, env.db, "editor1", "password123", "editor")
	token := testutil.IssueToken(t, env.db, env.tokens, user)

	_, err := store.New(env.db).UpdateUser(context.Background(), store.UpdateUserParams{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  false,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	assertErrorBody(t, env.do("Authorization", "Bearer "+token), http.StatusUnauthorized)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	env := newAuthTestEnv(t)
	user := testutil.CreateUser(t, env.db, "editor1", "password123", "editor")
	token := testutil.IssueToken(t, env.db, env.tokens, user)

	// Deleting the user cascades to its tokens; either check must reject.
	if _, err := store.New(env.db).DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	assertErrorBody(t, env.do("Authorization", "Bearer "+token), http.StatusUnauthorized)
}
