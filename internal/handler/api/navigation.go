// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/service"
	"github.com/nukgsz/schoolsite/internal/store"
)

// MenuItemResponse represents a navigation menu item in admin responses.
type MenuItemResponse struct {
	ID        string    `json:"id"`
	TitleBg   string    `json:"title_bg"`
	TitleEn   *string   `json:"title_en"`
	Path      string    `json:"path"`
	ParentID  *string   `json:"parent_id"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	Icon      *string   `json:"icon"`
	CSSClass  *string   `json:"css_class"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItemsResponse is the admin view of the menu: the flat rows and the
// unfiltered tree built from them.
type MenuItemsResponse struct {
	Items []MenuItemResponse `json:"items"`
	Tree  []model.NavItem    `json:"tree"`
	Total int                `json:"total"`
}

// MenuItemRequest is the body of menu item create and update requests.
// Title is accepted as an alias of title_bg.
type MenuItemRequest struct {
	ID       *ID     `json:"id"`
	Title    *string `json:"title" validate:"omitempty,max=255"`
	TitleBg  *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn  *string `json:"title_en" validate:"omitempty,max=255"`
	Path     *string `json:"path" validate:"omitempty,max=500"`
	ParentID *ID     `json:"parent_id"`
	Position *Number `json:"position"`
	IsActive *Flag   `json:"is_active"`
	Icon     *string `json:"icon" validate:"omitempty,max=100"`
	CSSClass *string `json:"css_class" validate:"omitempty,max=100"`
}

// ToggleResponse reports the new state of a toggled menu item.
type ToggleResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}

func menuItemToResponse(n store.NavigationMenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:        n.ID,
		TitleBg:   n.TitleBg,
		TitleEn:   ptr(n.TitleEn),
		Path:      n.Path,
		ParentID:  ptr(n.ParentID),
		Position:  n.Position,
		IsActive:  n.IsActive,
		Icon:      ptr(n.Icon),
		CSSClass:  ptr(n.CSSClass),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// HeaderMenu handles GET /api/navigation/header-menu.
func (h *Handler) HeaderMenu(w http.ResponseWriter, r *http.Request) {
	menu := h.nav.HeaderMenu(r.Context(), middleware.GetLanguage(r))
	handler.WriteJSON(w, http.StatusOK, handler.Response{
		Data: menu.Items,
		Meta: &handler.Meta{Total: len(menu.Items), Fallback: menu.Fallback},
	})
}

// FallbackMenu handles GET /api/navigation/fallback.
func (h *Handler) FallbackMenu(w http.ResponseWriter, r *http.Request) {
	handler.WriteList(w, service.StaticFallback(middleware.GetLanguage(r)))
}

// ListMenuItems handles GET /api/navigation/menu-items.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListNavigationMenuItems(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load menu items", err)
		return
	}
	resp := MenuItemsResponse{
		Items: make([]MenuItemResponse, 0, len(items)),
		Tree:  service.BuildTree(items, middleware.GetLanguage(r), false),
		Total: len(items),
	}
	for _, n := range items {
		resp.Items = append(resp.Items, menuItemToResponse(n))
	}
	handler.WriteData(w, http.StatusOK, resp)
}

// GetMenuItem handles GET /api/navigation/menu-items/{id}.
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	n, err := h.queries.GetNavigationMenuItem(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Menu item", err)
		return
	}
	handler.WriteData(w, http.StatusOK, menuItemToResponse(n))
}

// mergeMenuItem applies req over cur and checks the parent reference.
// cur.ID is empty for a new item, whose id is chosen by the caller.
func (h *Handler) mergeMenuItem(w http.ResponseWriter, r *http.Request, req MenuItemRequest, cur store.NavigationMenuItem, id string) (store.NavigationMenuItemParams, bool) {
	if !validate(w, req) {
		return store.NavigationMenuItemParams{}, false
	}
	p := store.NavigationMenuItemParams{
		ID:        id,
		TitleBg:   cur.TitleBg,
		TitleEn:   nullString(req.TitleEn, cur.TitleEn),
		Path:      cur.Path,
		ParentID:  cur.ParentID,
		Position:  int64Or(req.Position, cur.Position),
		IsActive:  boolOr(req.IsActive, cur.IsActive),
		Icon:      nullString(req.Icon, cur.Icon),
		CSSClass:  nullString(req.CSSClass, cur.CSSClass),
		CreatedAt: cur.CreatedAt,
	}
	switch {
	case req.TitleBg != nil:
		p.TitleBg = trimmed(req.TitleBg)
	case req.Title != nil:
		p.TitleBg = trimmed(req.Title)
	}
	if p.TitleBg == "" && p.TitleEn.Valid {
		// title_bg is NOT NULL; an English-only item shows its English title.
		p.TitleBg = p.TitleEn.String
	}
	if req.Path != nil {
		p.Path = trimmed(req.Path)
	}
	if req.ParentID != nil {
		parent := strings.TrimSpace(string(*req.ParentID))
		p.ParentID = sql.NullString{String: parent, Valid: parent != ""}
	}

	details := requireValue(nil, "title", p.TitleBg)
	details = requireValue(details, "path", p.Path)
	if p.ParentID.Valid && p.ParentID.String == id {
		details = addDetail(details, "parent_id", "A menu item cannot be its own parent")
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}

	if p.ParentID.Valid && p.ParentID != cur.ParentID {
		items, err := h.queries.ListNavigationMenuItems(r.Context())
		if err != nil {
			h.serverError(w, r, "Failed to save menu item", err)
			return p, false
		}
		found := false
		for _, item := range items {
			if item.ID == p.ParentID.String {
				found = true
				break
			}
		}
		if !found {
			handler.WriteValidationError(w, map[string]string{"parent_id": "Parent menu item does not exist"})
			return p, false
		}
		if cur.ID != "" && service.WouldCreateCycle(items, cur.ID, p.ParentID.String) {
			handler.WriteValidationError(w, map[string]string{"parent_id": "Parent change would create a cycle"})
			return p, false
		}
	}
	return p, true
}

// CreateMenuItem handles POST /api/navigation/menu-items.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}

	id := ""
	if req.ID != nil {
		id = string(*req.ID)
	}
	if id == "" {
		id = "nav_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	if details := rejectReserved(nil, "id", id); details != nil {
		handler.WriteValidationError(w, details)
		return
	}

	ctx := r.Context()
	if _, err := h.queries.GetNavigationMenuItem(ctx, id); err == nil {
		handler.WriteError(w, http.StatusConflict, "Menu item id already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.serverError(w, r, "Failed to create menu item", err)
		return
	}

	p, ok := h.mergeMenuItem(w, r, req, store.NavigationMenuItem{IsActive: true}, id)
	if !ok {
		return
	}

	var err error
	if p.Position, err = h.position(r, store.NavigationOrder, number(req.Position)); err != nil {
		h.serverError(w, r, "Failed to create menu item", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	n, err := h.queries.CreateNavigationMenuItem(ctx, p)
	if err != nil {
		h.serverError(w, r, "Failed to create menu item", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, menuItemToResponse(n))
}

// UpdateMenuItem handles PUT /api/navigation/menu-items/{id}.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, err := h.queries.GetNavigationMenuItem(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Menu item", err)
		return
	}
	p, ok := h.mergeMenuItem(w, r, req, cur, cur.ID)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	n, err := h.queries.UpdateNavigationMenuItem(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update menu item", err)
		return
	}
	handler.WriteData(w, http.StatusOK, menuItemToResponse(n))
}

// ToggleMenuItem handles PATCH /api/navigation/menu-items/{id}/toggle.
func (h *Handler) ToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cur, err := h.queries.GetNavigationMenuItem(ctx, handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Menu item", err)
		return
	}
	if err := h.queries.SetNavigationMenuItemActive(ctx, cur.ID, !cur.IsActive, h.now()); err != nil {
		h.serverError(w, r, "Failed to update menu item", err)
		return
	}
	handler.WriteData(w, http.StatusOK, ToggleResponse{ID: cur.ID, IsActive: !cur.IsActive})
}

// DeleteMenuItem handles DELETE /api/navigation/menu-items/{id}. Children
// move up to the deleted item's parent.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cur, err := h.queries.GetNavigationMenuItem(ctx, handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Menu item", err)
		return
	}
	n, err := store.DeleteNavigationMenuItemReparenting(ctx, h.db, cur)
	if err == nil && n > 0 {
		slog.Info("menu item deleted", "item_id", cur.ID, "user_id", middleware.GetUserID(r))
	}
	h.deleteResult(w, r, "Menu item", n, err)
}
