// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestNullStringFromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected sql.NullString
	}{
		{"nil pointer", nil, sql.NullString{}},
		{"empty string", ptr(""), sql.NullString{}},
		{"blank string", ptr("   "), sql.NullString{}},
		{"trimmed value", ptr("  Снимка "), sql.NullString{String: "Снимка", Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NullStringFromPtr(tt.input); got != tt.expected {
				t.Errorf("NullStringFromPtr() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPtrFromNull(t *testing.T) {
	if PtrFromNullString(sql.NullString{}) != nil {
		t.Error("PtrFromNullString(NULL) should be nil")
	}
	if got := PtrFromNullString(sql.NullString{String: "x", Valid: true}); got == nil || *got != "x" {
		t.Errorf("PtrFromNullString = %v, want x", got)
	}
	if PtrFromNullInt64(sql.NullInt64{}) != nil {
		t.Error("PtrFromNullInt64(NULL) should be nil")
	}
	if got := PtrFromNullInt64(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Errorf("PtrFromNullInt64 = %v, want 7", got)
	}
	if NullInt64FromPtr(ptr(int64(0))) != (sql.NullInt64{Int64: 0, Valid: true}) {
		t.Error("NullInt64FromPtr(0) should be a valid zero")
	}
	if BoolToInt(true) != 1 || BoolToInt(false) != 0 {
		t.Error("BoolToInt mismatch")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"Page 123", "page-123"},
		{"Café résumé", "cafe-resume"},
		{"Hello   World", "hello-world"},
		{"  -Trim me-  ", "trim-me"},
		{"Начало", "nachalo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"history", true},
		{"school/history", true},
		{"page-1", true},
		{"", false},
		{"-lead", false},
		{"trail-", false},
		{"double--hyphen", false},
		{"Upper", false},
		{"school//history", false},
		{"история", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestPlainFilename(t *testing.T) {
	valid := []string{"report.pdf", "65f0c1a2b3c4d_1717171717.jpg", "plan 2024.docx"}
	for _, name := range valid {
		if _, err := PlainFilename(name); err != nil {
			t.Errorf("PlainFilename(%q) error = %v", name, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a/b.pdf", `a\b.pdf`, "..", ".htaccess", "x..y"}
	for _, name := range invalid {
		if _, err := PlainFilename(name); err == nil {
			t.Errorf("PlainFilename(%q) should fail", name)
		}
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "doc.pdf")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if filepath.Dir(got) != base {
		t.Errorf("SafeJoinPath dir = %q, want %q", filepath.Dir(got), base)
	}

	if _, err := SafeJoinPath(base, "../doc.pdf"); err == nil {
		t.Error("SafeJoinPath should reject traversal")
	}
}

func TestValidateLinkURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.mon.bg/", false},
		{"http://example.com/path?q=1", false},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
		{"https://", true},
		{"not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateLinkURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLinkURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
