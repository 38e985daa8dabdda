// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n resolves the requested site language and applies the
// Bulgarian/English fallback used by every public content transform.
package i18n

import (
	"database/sql"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a site language code.
type Lang string

// Supported site languages. Bulgarian is the primary language of the site.
const (
	BG Lang = "bg"
	EN Lang = "en"

	Default = BG
)

// SupportedLanguages lists the site languages in matcher priority order.
var SupportedLanguages = []Lang{BG, EN}

var (
	supportedTags = []language.Tag{language.Bulgarian, language.English}
	matcher       = language.NewMatcher(supportedTags)
)

// Other returns the fallback language for l.
func (l Lang) Other() Lang {
	if l == EN {
		return BG
	}
	return EN
}

// Parse returns the supported language for code and whether it was recognised.
func Parse(code string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(code))) {
	case BG:
		return BG, true
	case EN:
		return EN, true
	}
	return Default, false
}

// MatchLanguage finds the best supported language for an Accept-Language
// header value or a single language tag. Unknown input yields the default.
func MatchLanguage(acceptLang string) Lang {
	if acceptLang == "" {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return Default
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(SupportedLanguages) {
		return Default
	}
	return SupportedLanguages[idx]
}

// FromRequest picks the language from the ?lang= query parameter, then the
// Accept-Language header.
func FromRequest(r *http.Request) Lang {
	if l, ok := Parse(r.URL.Query().Get("lang")); ok {
		return l
	}
	return MatchLanguage(r.Header.Get("Accept-Language"))
}

// Localize returns the value for lang, falling back to the other language
// and then to the empty string. Whitespace-only values count as empty.
func Localize(lang Lang, bg, en string) string {
	primary, secondary := bg, en
	if lang == EN {
		primary, secondary = en, bg
	}
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	if strings.TrimSpace(secondary) != "" {
		return secondary
	}
	return ""
}

// LocalizeNull is Localize over nullable columns.
func LocalizeNull(lang Lang, bg, en sql.NullString) string {
	return Localize(lang, bg.String, en.String)
}
