// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
)

func createGalleryImage(t *testing.T, a *testAPI, body map[string]any) GalleryImageResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/gallery", a.editorToken, body)
	expectStatus(t, w, http.StatusCreated)
	return unmarshalData[GalleryImageResponse](t, w)
}

func TestCreateGalleryImageAppendsDisplayOrder(t *testing.T) {
	a := newTestAPI(t)

	first := createGalleryImage(t, a, map[string]any{"image_url": "/uploads/pictures/a.jpg"})
	second := createGalleryImage(t, a, map[string]any{"image_url": "/uploads/pictures/b.jpg"})

	if !first.IsPublished {
		t.Error("is_published should default to true")
	}
	if second.DisplayOrder != first.DisplayOrder+1 {
		t.Errorf("display_order = %d then %d", first.DisplayOrder, second.DisplayOrder)
	}
}

func TestCreateGalleryImageRequiresURL(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/gallery", a.editorToken, map[string]any{"title_bg": "Снимка"})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	if _, ok := validationDetails(t, w)["image_url"]; !ok {
		t.Errorf("details = %v", validationDetails(t, w))
	}
	if n := countRows(t, a.db, "gallery_images"); n != 0 {
		t.Errorf("gallery_images has %d rows", n)
	}
}

func TestGalleryReorder(t *testing.T) {
	a := newTestAPI(t)
	x := createGalleryImage(t, a, map[string]any{"image_url": "/x.jpg", "title_en": "X"})
	y := createGalleryImage(t, a, map[string]any{"image_url": "/y.jpg", "title_en": "Y"})
	z := createGalleryImage(t, a, map[string]any{"image_url": "/z.jpg", "title_en": "Z"})

	w := a.do(http.MethodPut, "/api/gallery/reorder", a.editorToken, map[string]any{
		"images": []map[string]any{
			{"id": z.ID, "display_order": 1},
			{"id": x.ID, "display_order": 2},
			{"id": y.ID, "display_order": 3},
		},
	})
	expectStatus(t, w, http.StatusOK)

	w = a.do(http.MethodGet, "/api/gallery?lang=en", "", nil)
	items, _ := unmarshalList[PublicGalleryImageResponse](t, w)
	got := ""
	for _, it := range items {
		got += it.Title
	}
	if got != "ZXY" {
		t.Errorf("order = %q, want ZXY", got)
	}
}

func TestGalleryPublishedFilter(t *testing.T) {
	a := newTestAPI(t)
	createGalleryImage(t, a, map[string]any{"image_url": "/a.jpg"})
	hidden := createGalleryImage(t, a, map[string]any{"image_url": "/b.jpg", "is_published": 0})

	w := a.do(http.MethodGet, "/api/gallery", "", nil)
	items, meta := unmarshalList[PublicGalleryImageResponse](t, w)
	if len(items) != 1 || meta.Total != 1 {
		t.Errorf("public gallery has %d images", len(items))
	}

	w = a.do(http.MethodGet, "/api/gallery/"+itoa(hidden.ID), "", nil)
	expectStatus(t, w, http.StatusNotFound)

	w = a.do(http.MethodGet, "/api/gallery/admin", a.editorToken, nil)
	items2, _ := unmarshalList[GalleryImageResponse](t, w)
	if len(items2) != 2 {
		t.Errorf("admin gallery has %d images, want 2", len(items2))
	}
}
