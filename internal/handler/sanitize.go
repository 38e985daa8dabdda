// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// ExcerptLength is the rune length of generated excerpts.
const ExcerptLength = 200

var (
	// ugcPolicy allows the formatting produced by the admin rich-text editor.
	ugcPolicy   = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML removes scripts, event handlers and other unsafe markup
// from rich-text input.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// SanitizeHTMLPtr sanitizes the pointed-to value in place.
func SanitizeHTMLPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeHTML(*s)
	return &v
}

// StripTags returns the text content of s with whitespace collapsed.
func StripTags(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first ExcerptLength runes of the text content of s,
// with an ellipsis when truncated.
func Excerpt(s string) string {
	text := StripTags(s)
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}
