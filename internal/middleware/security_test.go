package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// headersFor returns the response headers SecurityHeaders sets for path.
func headersFor(cfg SecurityHeadersConfig, path string) http.Header {
	rec := httptest.NewRecorder()
	SecurityHeaders(cfg)(simpleOKHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestSiteSecurityHeaders(t *testing.T) {
	const apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	const hstsProd = "max-age=31536000; includeSubDomains"

	tests := []struct {
		name  string
		dev   bool
		path  string
		frame string
		csp   string
		hsts  string
	}{
		{"api in production", false, "/api/news", "DENY", apiCSP, hstsProd},
		{"health in production", false, "/api/health", "DENY", apiCSP, hstsProd},
		{"school plan pdf", false, "/documents/plans/plan-2025.pdf", "", "", hstsProd},
		{"gallery picture", false, "/uploads/gallery/graduation.webp", "", "", hstsProd},
		{"api in development", true, "/api/events", "DENY", apiCSP, ""},
		{"document in development", true, "/documents/news/news_3_menu.pdf", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := headersFor(DefaultSecurityHeadersConfig(tt.dev), tt.path)

			want := map[string]string{
				"X-Content-Type-Options":    "nosniff",
				"Referrer-Policy":           "strict-origin-when-cross-origin",
				"X-Frame-Options":           tt.frame,
				"Content-Security-Policy":   tt.csp,
				"Strict-Transport-Security": tt.hsts,
			}
			for name, v := range want {
				if got := h.Get(name); got != v {
					t.Errorf("%s = %q, want %q", name, got, v)
				}
			}
		})
	}
}

func TestSecurityHeadersCustomConfig(t *testing.T) {
	cfg := SecurityHeadersConfig{
		HSTSMaxAge:      63072000,
		FrameOptions:    "SAMEORIGIN",
		EmbeddablePaths: []string{"/documents/"},
	}

	h := headersFor(cfg, "/api/pages")
	if got := h.Get("Strict-Transport-Security"); got != "max-age=63072000" {
		t.Errorf("HSTS = %q, want no includeSubDomains", got)
	}
	if got := h.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	for _, name := range []string{"Referrer-Policy", "Content-Security-Policy"} {
		if got := h.Get(name); got != "" {
			t.Errorf("%s = %q, want unset when not configured", name, got)
		}
	}

	// Only listed prefixes may be framed.
	if got := headersFor(cfg, "/uploads/staff/a.jpg").Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("uploads X-Frame-Options = %q, want SAMEORIGIN", got)
	}

	cfg.HSTSMaxAge = 0
	if got := headersFor(cfg, "/api/pages").Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want disabled with zero max-age", got)
	}
}

func TestNoStoreOverridesCaching(t *testing.T) {
	handler := StaticCache(time.Hour)(NoStore(simpleOKHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestBuildCSP(t *testing.T) {
	if got := buildCSP(nil); got != "" {
		t.Errorf("buildCSP(nil) = %q, want empty", got)
	}
	got := buildCSP([][2]string{{"default-src", "'self'"}, {"img-src", "'self' data:"}})
	if want := "default-src 'self'; img-src 'self' data:"; got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}
