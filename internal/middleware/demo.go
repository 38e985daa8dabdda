// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
)

// DemoRestriction defines a type of restriction in demo mode.
type DemoRestriction string

// Operations blocked on a public demo instance. Content editing stays open
// so visitors can try the admin panel.
const (
	RestrictionManageUsers    DemoRestriction = "manage_users"
	RestrictionChangePassword DemoRestriction = "change_password"
	RestrictionDeleteContent  DemoRestriction = "delete_content"
	RestrictionLargeUpload    DemoRestriction = "large_upload"
)

// DemoUploadLimit caps upload size in demo mode.
const DemoUploadLimit = 2 << 20

// DemoModeMessage is the message shown when an action is blocked.
const DemoModeMessage = "This action is disabled in demo mode"

var demoMessages = map[DemoRestriction]string{
	RestrictionManageUsers:    "User management is disabled in demo mode",
	RestrictionChangePassword: "Changing passwords is disabled in demo mode",
	RestrictionDeleteContent:  "Deleting content is disabled in demo mode",
	RestrictionLargeUpload:    "Large file uploads are disabled in demo mode (max 2MB)",
}

// DemoModeMessageDetailed returns a detailed message for a specific restriction.
func DemoModeMessageDetailed(restriction DemoRestriction) string {
	if msg, ok := demoMessages[restriction]; ok {
		return msg
	}
	return DemoModeMessage
}

// DemoGuard blocks restricted operations when demo mode is enabled.
type DemoGuard struct {
	enabled bool
}

// NewDemoGuard returns a guard that is active only when enabled is true.
func NewDemoGuard(enabled bool) *DemoGuard {
	return &DemoGuard{enabled: enabled}
}

// Enabled reports whether demo restrictions apply.
func (g *DemoGuard) Enabled() bool {
	return g != nil && g.enabled
}

func (g *DemoGuard) deny(w http.ResponseWriter, r *http.Request, restriction DemoRestriction) {
	slog.Info("blocked in demo mode", "restriction", restriction, "method", r.Method, "path", r.URL.Path)
	WriteError(w, http.StatusForbidden, DemoModeMessageDetailed(restriction))
}

// Block rejects every request in demo mode.
func (g *DemoGuard) Block(restriction DemoRestriction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Enabled() {
				g.deny(w, r, restriction)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BlockWrites rejects non-GET requests in demo mode.
func (g *DemoGuard) BlockWrites(restriction DemoRestriction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Enabled() && r.Method != http.MethodGet && r.Method != http.MethodHead {
				g.deny(w, r, restriction)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BlockDeletes rejects DELETE requests in demo mode.
func (g *DemoGuard) BlockDeletes(restriction DemoRestriction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Enabled() && r.Method == http.MethodDelete {
				g.deny(w, r, restriction)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UploadLimit returns the effective upload size cap.
func (g *DemoGuard) UploadLimit(configured int64) int64 {
	if g.Enabled() && configured > DemoUploadLimit {
		return DemoUploadLimit
	}
	return configured
}
