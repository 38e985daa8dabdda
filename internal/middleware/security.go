// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value for API responses.
	ContentSecurityPolicy string

	// HSTSMaxAge is the max-age for Strict-Transport-Security in seconds.
	// Set to 0 to disable HSTS.
	HSTSMaxAge int

	// HSTSIncludeSubDomains includes subdomains in HSTS policy.
	HSTSIncludeSubDomains bool

	// FrameOptions controls the X-Frame-Options header.
	// Valid values: "DENY", "SAMEORIGIN", or empty to disable.
	FrameOptions string

	// ReferrerPolicy controls the Referrer-Policy header.
	ReferrerPolicy string

	// EmbeddablePaths are path prefixes whose responses may be framed by the
	// frontend (uploaded PDFs and pictures). They keep nosniff and referrer
	// headers but skip X-Frame-Options and the CSP.
	EmbeddablePaths []string
}

// DefaultSecurityHeadersConfig returns a SecurityHeadersConfig with sensible defaults.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	cfg := SecurityHeadersConfig{
		IsDevelopment:   isDev,
		HSTSMaxAge:      31536000, // 1 year
		FrameOptions:    "DENY",
		ReferrerPolicy:  "strict-origin-when-cross-origin",
		EmbeddablePaths: []string{"/uploads/", "/documents/"},
	}

	// The API only returns JSON, so nothing needs to load from it.
	cfg.ContentSecurityPolicy = buildCSP([][2]string{
		{"default-src", "'none'"},
		{"frame-ancestors", "'none'"},
		{"base-uri", "'none'"},
	})
	if !isDev {
		cfg.HSTSIncludeSubDomains = true
	}
	return cfg
}

// buildCSP builds a Content-Security-Policy string from ordered directives.
func buildCSP(directives [][2]string) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d[0]+" "+d[1])
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	var hsts string
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			// X-Content-Type-Options - prevent MIME sniffing
			h.Set("X-Content-Type-Options", "nosniff")

			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}

			if !isEmbeddable(r.URL.Path, cfg.EmbeddablePaths) {
				if cfg.FrameOptions != "" {
					h.Set("X-Frame-Options", cfg.FrameOptions)
				}
				if cfg.ContentSecurityPolicy != "" {
					h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isEmbeddable(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
