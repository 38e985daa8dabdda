// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nukgsz/schoolsite/internal/model"
)

func createMenuItem(t *testing.T, a *testAPI, body map[string]any) MenuItemResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/navigation/menu-items", a.editorToken, body)
	expectStatus(t, w, http.StatusCreated)
	return unmarshalData[MenuItemResponse](t, w)
}

func headerMenu(t *testing.T, a *testAPI, lang string) ([]model.NavItem, bool) {
	t.Helper()
	w := a.do(http.MethodGet, "/api/navigation/header-menu?lang="+lang, "", nil)
	expectStatus(t, w, http.StatusOK)
	items, meta := unmarshalList[model.NavItem](t, w)
	require.NotNil(t, meta)
	return items, meta.Fallback
}

func TestHeaderMenuHomeWhenEmpty(t *testing.T) {
	a := newTestAPI(t)

	items, fallback := headerMenu(t, a, "en")
	require.Len(t, items, 1)
	assert.Equal(t, "Home", items[0].Title)
	assert.Equal(t, "/", items[0].Path)
	assert.False(t, fallback)
}

func TestHeaderMenuFromPages(t *testing.T) {
	a := newTestAPI(t)
	createPage(t, a, map[string]any{"title_bg": "Контакти", "title_en": "Contacts", "position": 2})
	createPage(t, a, map[string]any{"title_bg": "За нас", "title_en": "About", "position": 1})
	createPage(t, a, map[string]any{"title_en": "Hidden", "show_in_menu": false})

	items, _ := headerMenu(t, a, "bg")
	require.Len(t, items, 2)
	assert.Equal(t, "За нас", items[0].Title)
	assert.Equal(t, "/about", items[0].Path)
	assert.Equal(t, "Контакти", items[1].Title)
}

func TestHeaderMenuFromItems(t *testing.T) {
	a := newTestAPI(t)
	createPage(t, a, map[string]any{"title_en": "Ignored once items exist"})

	about := createMenuItem(t, a, map[string]any{"id": "about", "title_bg": "За нас", "title_en": "About", "path": "/about", "position": 1})
	createMenuItem(t, a, map[string]any{"id": "history", "title": "История", "path": "/history", "parent_id": about.ID})
	createMenuItem(t, a, map[string]any{"id": "hidden", "title": "Скрито", "path": "/hidden", "is_active": false})
	createMenuItem(t, a, map[string]any{"id": "under-hidden", "title": "Под скрито", "path": "/x", "parent_id": "hidden"})

	items, fallback := headerMenu(t, a, "en")
	assert.False(t, fallback)
	require.Len(t, items, 1, "inactive items and their children are skipped")
	assert.Equal(t, "About", items[0].Title)
	require.Len(t, items[0].Children, 1)
	// No English title, so the Bulgarian one is used.
	assert.Equal(t, "История", items[0].Children[0].Title)
}

func TestFallbackMenu(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodGet, "/api/navigation/fallback?lang=en", "", nil)
	expectStatus(t, w, http.StatusOK)
	items, meta := unmarshalList[model.NavItem](t, w)
	require.NotEmpty(t, items)
	assert.Equal(t, len(items), meta.Total)
	assert.Equal(t, "Home", items[0].Title)
}

func TestMenuItemValidation(t *testing.T) {
	a := newTestAPI(t)
	createMenuItem(t, a, map[string]any{"id": "a", "title": "A", "path": "/a"})

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
		status int
	}{
		{"missing path", http.MethodPost, "/api/navigation/menu-items", map[string]any{"title": "X"}, http.StatusUnprocessableEntity},
		{"missing title", http.MethodPost, "/api/navigation/menu-items", map[string]any{"path": "/x"}, http.StatusUnprocessableEntity},
		{"unknown parent", http.MethodPost, "/api/navigation/menu-items", map[string]any{"title": "X", "path": "/x", "parent_id": "nope"}, http.StatusUnprocessableEntity},
		{"duplicate id", http.MethodPost, "/api/navigation/menu-items", map[string]any{"id": "a", "title": "X", "path": "/x"}, http.StatusConflict},
		{"reserved id", http.MethodPost, "/api/navigation/menu-items", map[string]any{"id": "reorder", "title": "X", "path": "/x"}, http.StatusUnprocessableEntity},
		{"own parent", http.MethodPut, "/api/navigation/menu-items/a", map[string]any{"parent_id": "a"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(tt.method, tt.path, a.editorToken, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 1, countRows(t, a.db, "navigation_menu_items"))
}

func TestMenuItemCycleRejected(t *testing.T) {
	a := newTestAPI(t)
	createMenuItem(t, a, map[string]any{"id": "root", "title": "Root", "path": "/r"})
	createMenuItem(t, a, map[string]any{"id": "mid", "title": "Mid", "path": "/m", "parent_id": "root"})
	createMenuItem(t, a, map[string]any{"id": "leaf", "title": "Leaf", "path": "/l", "parent_id": "mid"})

	w := a.do(http.MethodPut, "/api/navigation/menu-items/root", a.editorToken, map[string]any{"parent_id": "leaf"})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	assert.Equal(t, "Parent change would create a cycle", validationDetails(t, w)["parent_id"])
}

func TestCreateMenuItemGeneratesID(t *testing.T) {
	a := newTestAPI(t)

	item := createMenuItem(t, a, map[string]any{"title_en": "English only", "path": "/en"})
	assert.Regexp(t, `^nav_[0-9a-f]{16}$`, item.ID)
	assert.Equal(t, "English only", item.TitleBg)
	assert.True(t, item.IsActive)
}

func TestToggleMenuItem(t *testing.T) {
	a := newTestAPI(t)
	createMenuItem(t, a, map[string]any{"id": "t", "title": "T", "path": "/t"})

	w := a.do(http.MethodPatch, "/api/navigation/menu-items/t/toggle", a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	assert.False(t, unmarshalData[ToggleResponse](t, w).IsActive)

	w = a.do(http.MethodPatch, "/api/navigation/menu-items/t/toggle", a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	assert.True(t, unmarshalData[ToggleResponse](t, w).IsActive)

	w = a.do(http.MethodPatch, "/api/navigation/menu-items/missing/toggle", a.editorToken, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestDeleteMenuItemReparentsChildren(t *testing.T) {
	a := newTestAPI(t)
	createMenuItem(t, a, map[string]any{"id": "top", "title": "Top", "path": "/top"})
	createMenuItem(t, a, map[string]any{"id": "middle", "title": "Middle", "path": "/middle", "parent_id": "top"})
	createMenuItem(t, a, map[string]any{"id": "child", "title": "Child", "path": "/child", "parent_id": "middle"})

	w := a.do(http.MethodDelete, "/api/navigation/menu-items/middle", a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)

	w = a.do(http.MethodGet, "/api/navigation/menu-items/child", a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	child := unmarshalData[MenuItemResponse](t, w)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, "top", *child.ParentID)
}

func TestListMenuItemsIncludesTree(t *testing.T) {
	a := newTestAPI(t)
	createMenuItem(t, a, map[string]any{"id": "p", "title": "P", "path": "/p"})
	createMenuItem(t, a, map[string]any{"id": "c", "title": "C", "path": "/c", "parent_id": "p", "is_active": false})

	w := a.do(http.MethodGet, "/api/navigation/menu-items", a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	resp := unmarshalData[MenuItemsResponse](t, w)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Items, 2)
	require.Len(t, resp.Tree, 1)
	assert.Len(t, resp.Tree[0].Children, 1, "admin tree keeps inactive items")
}
