// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createNews(t *testing.T, a *testAPI, body map[string]any) NewsResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/news", a.editorToken, body)
	expectStatus(t, w, http.StatusCreated)
	return unmarshalData[NewsResponse](t, w)
}

func TestCreateNewsDefaults(t *testing.T) {
	a := newTestAPI(t)

	n := createNews(t, a, map[string]any{"title_bg": "  Новина  ", "content_bg": "<p>Текст</p><script>x()</script>"})

	if n.TitleBg == nil || *n.TitleBg != "Новина" {
		t.Errorf("title_bg = %v, want trimmed value", n.TitleBg)
	}
	if n.TitleEn != nil {
		t.Errorf("title_en = %q, want null", *n.TitleEn)
	}
	if !n.IsPublished {
		t.Error("is_published should default to true")
	}
	if n.ContentBg == nil || strings.Contains(*n.ContentBg, "script") {
		t.Errorf("content_bg = %v, want sanitized HTML", n.ContentBg)
	}
	if n.CreatedBy == nil || *n.CreatedBy != a.editor.ID {
		t.Errorf("created_by = %v, want %d", n.CreatedBy, a.editor.ID)
	}
}

func TestCreateNewsRequiresTitle(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/news", a.editorToken, map[string]any{"title_bg": "  ", "content_en": "x"})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	if _, ok := validationDetails(t, w)["title"]; !ok {
		t.Errorf("details = %v, want a title entry", validationDetails(t, w))
	}
	if n := countRows(t, a.db, "news"); n != 0 {
		t.Errorf("news has %d rows after failed validation", n)
	}
}

func TestNewsBilingualFallback(t *testing.T) {
	a := newTestAPI(t)
	createNews(t, a, map[string]any{"title_bg": "Само на български", "content_bg": "<p>Съдържание на новината</p>"})

	w := a.do(http.MethodGet, "/api/news?lang=en", "", nil)
	expectStatus(t, w, http.StatusOK)
	items, meta := unmarshalList[PublicNewsResponse](t, w)
	if len(items) != 1 || meta == nil || meta.Total != 1 {
		t.Fatalf("got %d items, meta %+v", len(items), meta)
	}
	if items[0].Title != "Само на български" {
		t.Errorf("title = %q, want the Bulgarian fallback", items[0].Title)
	}
	if items[0].Excerpt != "Съдържание на новината" {
		t.Errorf("excerpt = %q, want stripped content", items[0].Excerpt)
	}
}

func TestPublicNewsHidesUnpublished(t *testing.T) {
	a := newTestAPI(t)
	draft := createNews(t, a, map[string]any{"title_en": "Draft", "is_published": "0"})
	createNews(t, a, map[string]any{"title_en": "Live"})

	w := a.do(http.MethodGet, "/api/news", "", nil)
	items, _ := unmarshalList[PublicNewsResponse](t, w)
	if len(items) != 1 || items[0].Title != "Live" {
		t.Fatalf("public list = %+v, want only the published article", items)
	}

	w = a.do(http.MethodGet, "/api/news/"+itoa(draft.ID), "", nil)
	expectStatus(t, w, http.StatusNotFound)

	w = a.do(http.MethodGet, "/api/news/admin/"+itoa(draft.ID), a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
}

func TestNewsFeaturedFirst(t *testing.T) {
	a := newTestAPI(t)
	createNews(t, a, map[string]any{"title_en": "Old", "published_date": "2025-01-01"})
	createNews(t, a, map[string]any{"title_en": "Featured", "is_featured": true, "published_date": "2024-01-01"})
	createNews(t, a, map[string]any{"title_en": "New", "published_date": "2026-01-01"})

	w := a.do(http.MethodGet, "/api/news?lang=en", "", nil)
	items, _ := unmarshalList[PublicNewsResponse](t, w)
	var titles []string
	for _, n := range items {
		titles = append(titles, n.Title)
	}
	if got := strings.Join(titles, ","); got != "Featured,New,Old" {
		t.Errorf("order = %s, want Featured,New,Old", got)
	}

	w = a.do(http.MethodGet, "/api/news?featured=1&lang=en", "", nil)
	items, _ = unmarshalList[PublicNewsResponse](t, w)
	if len(items) != 1 || items[0].Title != "Featured" {
		t.Errorf("featured list = %+v", items)
	}

	w = a.do(http.MethodGet, "/api/news?limit=2", "", nil)
	items, _ = unmarshalList[PublicNewsResponse](t, w)
	if len(items) != 2 {
		t.Errorf("limit=2 returned %d items", len(items))
	}
}

func TestUpdateNewsKeepsAbsentFields(t *testing.T) {
	a := newTestAPI(t)
	n := createNews(t, a, map[string]any{"title_bg": "БГ", "title_en": "EN", "excerpt_en": "Summary"})

	w := a.do(http.MethodPut, "/api/news/"+itoa(n.ID), a.editorToken, map[string]any{"title_en": "Updated", "excerpt_en": ""})
	expectStatus(t, w, http.StatusOK)
	got := unmarshalData[NewsResponse](t, w)

	if got.TitleBg == nil || *got.TitleBg != "БГ" {
		t.Errorf("title_bg = %v, want unchanged", got.TitleBg)
	}
	if got.TitleEn == nil || *got.TitleEn != "Updated" {
		t.Errorf("title_en = %v, want Updated", got.TitleEn)
	}
	if got.ExcerptEn != nil {
		t.Errorf("excerpt_en = %q, want cleared", *got.ExcerptEn)
	}
}

func TestNewsAttachmentLifecycle(t *testing.T) {
	a := newTestAPI(t)
	n := createNews(t, a, map[string]any{"title_en": "With files"})
	base := "/api/news/" + itoa(n.ID) + "/attachments"

	w := a.upload(base, a.editorToken, "file", "plan.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	expectStatus(t, w, http.StatusCreated)
	att := unmarshalData[AttachmentResponse](t, w)
	if att.OriginalName != "plan.pdf" || att.NewsID != n.ID {
		t.Fatalf("attachment = %+v", att)
	}
	stored := filepath.Join(a.publicDir, filepath.FromSlash(strings.TrimPrefix(att.URL, "/")))
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("attachment file missing: %v", err)
	}

	w = a.do(http.MethodGet, base, "", nil)
	items, _ := unmarshalList[AttachmentResponse](t, w)
	if len(items) != 1 {
		t.Fatalf("attachments = %d, want 1", len(items))
	}

	w = a.do(http.MethodDelete, "/api/news/"+itoa(n.ID), a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	if c := countRows(t, a.db, "news_attachments"); c != 0 {
		t.Errorf("news_attachments = %d rows after deleting the article", c)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("attachment file still present: %v", err)
	}
}

func TestNewsAttachmentRejectsExecutable(t *testing.T) {
	a := newTestAPI(t)
	n := createNews(t, a, map[string]any{"title_en": "x"})

	w := a.upload("/api/news/"+itoa(n.ID)+"/attachments", a.editorToken, "file", "run.exe",
		"application/x-msdownload", []byte("MZ"))
	expectStatus(t, w, http.StatusBadRequest)
	if c := countRows(t, a.db, "news_attachments"); c != 0 {
		t.Errorf("news_attachments = %d rows", c)
	}
}
