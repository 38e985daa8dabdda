// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
)

func TestCreateLinkValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing url", map[string]any{"title_bg": "МОН"}, "url"},
		{"relative url", map[string]any{"title_bg": "МОН", "url": "/mon"}, "url"},
		{"javascript url", map[string]any{"title_bg": "МОН", "url": "javascript:alert(1)"}, "url"},
		{"missing title", map[string]any{"url": "https://www.mon.bg"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t)
			w := a.do(http.MethodPost, "/api/useful-links", a.editorToken, tt.body)
			expectStatus(t, w, http.StatusUnprocessableEntity)
			if _, ok := validationDetails(t, w)[tt.field]; !ok {
				t.Errorf("details = %v, want %s", validationDetails(t, w), tt.field)
			}
			if n := countRows(t, a.db, "useful_links"); n != 0 {
				t.Errorf("useful_links has %d rows", n)
			}
		})
	}
}

func TestLinkKeyConflict(t *testing.T) {
	a := newTestAPI(t)
	body := map[string]any{"link_key": "mon", "title_bg": "МОН", "url": "https://www.mon.bg", "cta_bg": "Към сайта"}

	w := a.do(http.MethodPost, "/api/useful-links", a.editorToken, body)
	expectStatus(t, w, http.StatusCreated)
	first := unmarshalData[UsefulLinkResponse](t, w)

	w = a.do(http.MethodPost, "/api/useful-links", a.editorToken, body)
	expectStatus(t, w, http.StatusConflict)

	// Saving a link under its own key is not a conflict.
	w = a.do(http.MethodPut, "/api/useful-links/"+itoa(first.ID), a.editorToken, map[string]any{"link_key": "mon"})
	expectStatus(t, w, http.StatusOK)

	w = a.do(http.MethodGet, "/api/useful-links?lang=en", "", nil)
	items, _ := unmarshalList[PublicUsefulLinkResponse](t, w)
	if len(items) != 1 || items[0].Title != "МОН" || items[0].Cta != "Към сайта" {
		t.Errorf("public links = %+v", items)
	}
}
