package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value  string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"does-not-exist", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.value)
		got, ok := ParseIDParam(req, "id")
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseIDParam(%q) = %d, %v; want %d, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?featured=1&upcoming=false&limit=500&bad=x", nil)

	if !QueryBool(req, "featured") {
		t.Error("QueryBool(featured) = false")
	}
	if QueryBool(req, "upcoming") || QueryBool(req, "missing") {
		t.Error("QueryBool should be false for false/missing")
	}
	if got := QueryInt(req, "limit", 10, 100); got != 100 {
		t.Errorf("QueryInt(limit) = %d, want 100", got)
	}
	if got := QueryInt(req, "bad", 10, 100); got != 10 {
		t.Errorf("QueryInt(bad) = %d, want 10", got)
	}
}
