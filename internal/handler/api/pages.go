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

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/util"
)

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	ParentID   *string   `json:"parent_id"`
	TitleBg    *string   `json:"title_bg"`
	TitleEn    *string   `json:"title_en"`
	ContentBg  *string   `json:"content_bg"`
	ContentEn  *string   `json:"content_en"`
	Position   int64     `json:"position"`
	IsActive   bool      `json:"is_active"`
	ShowInMenu bool      `json:"show_in_menu"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicPageResponse adds the localised title, content and path.
type PublicPageResponse struct {
	PageResponse
	Title   string `json:"title"`
	Content string `json:"content"`
	Path    string `json:"path"`
}

// PageRequest is the body of page create and update requests.
type PageRequest struct {
	ID         *ID     `json:"id"`
	Slug       *string `json:"slug" validate:"omitempty,max=255"`
	ParentID   *string `json:"parent_id" validate:"omitempty,max=255"`
	TitleBg    *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn    *string `json:"title_en" validate:"omitempty,max=255"`
	ContentBg  *string `json:"content_bg"`
	ContentEn  *string `json:"content_en"`
	Position   *Number `json:"position"`
	IsActive   *Flag   `json:"is_active"`
	ShowInMenu *Flag   `json:"show_in_menu"`
}

func pageToResponse(p store.Page) PageResponse {
	return PageResponse{
		ID:         p.ID,
		Slug:       p.Slug,
		ParentID:   ptr(p.ParentID),
		TitleBg:    ptr(p.TitleBg),
		TitleEn:    ptr(p.TitleEn),
		ContentBg:  ptr(p.ContentBg),
		ContentEn:  ptr(p.ContentEn),
		Position:   p.Position,
		IsActive:   p.IsActive,
		ShowInMenu: p.ShowInMenu,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func pageToPublic(p store.Page, lang i18n.Lang) PublicPageResponse {
	return PublicPageResponse{
		PageResponse: pageToResponse(p),
		Title:        i18n.LocalizeNull(lang, p.TitleBg, p.TitleEn),
		Content:      i18n.LocalizeNull(lang, p.ContentBg, p.ContentEn),
		Path:         "/" + p.Slug,
	}
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListActivePages(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load pages", err)
		return
	}
	lang := middleware.GetLanguage(r)
	resp := make([]PublicPageResponse, 0, len(pages))
	for _, p := range pages {
		resp = append(resp, pageToPublic(p, lang))
	}
	handler.WriteList(w, resp)
}

// GetPage handles GET /api/pages/{id}. The parameter is tried as an id
// first, then as a slug.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	key := handler.StringParam(r, "id")
	ctx := r.Context()

	p, err := h.queries.GetPageByID(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		p, err = h.queries.GetPageBySlug(ctx, key)
	}
	if err != nil {
		h.notFoundOrError(w, r, "Page", err)
		return
	}
	if !p.IsActive {
		notFound(w, "Page")
		return
	}
	handler.WriteData(w, http.StatusOK, pageToPublic(p, middleware.GetLanguage(r)))
}

// AdminListPages handles GET /api/pages/admin.
func (h *Handler) AdminListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		h.serverError(w, r, "Failed to load pages", err)
		return
	}
	resp := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		resp = append(resp, pageToResponse(p))
	}
	handler.WriteList(w, resp)
}

// AdminGetPage handles GET /api/pages/admin/{id}.
func (h *Handler) AdminGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.queries.GetPageByID(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Page", err)
		return
	}
	handler.WriteData(w, http.StatusOK, pageToResponse(p))
}

// mergePage applies req over cur and checks the slug and parent. A new page
// has an empty cur.ID. Returns false if the response has been written.
func (h *Handler) mergePage(w http.ResponseWriter, r *http.Request, req PageRequest, cur store.Page) (store.UpdatePageParams, bool) {
	if !validate(w, req) {
		return store.UpdatePageParams{}, false
	}
	p := store.UpdatePageParams{
		ID:         cur.ID,
		Slug:       cur.Slug,
		ParentID:   nullString(req.ParentID, cur.ParentID),
		TitleBg:    nullString(req.TitleBg, cur.TitleBg),
		TitleEn:    nullString(req.TitleEn, cur.TitleEn),
		ContentBg:  nullHTML(req.ContentBg, cur.ContentBg),
		ContentEn:  nullHTML(req.ContentEn, cur.ContentEn),
		Position:   int64Or(req.Position, cur.Position),
		IsActive:   boolOr(req.IsActive, cur.IsActive),
		ShowInMenu: boolOr(req.ShowInMenu, cur.ShowInMenu),
	}
	if req.Slug != nil {
		p.Slug = strings.Trim(strings.ToLower(trimmed(req.Slug)), "/")
	}
	if p.Slug == "" {
		title := p.TitleEn.String
		if title == "" {
			title = p.TitleBg.String
		}
		p.Slug = util.Slugify(title)
	}

	details := requireOneOf(nil, "title", "title_bg or title_en is required", p.TitleBg, p.TitleEn)
	if p.Slug == "" || !util.IsValidSlug(p.Slug) {
		details = addDetail(details, "slug", "Invalid slug")
	}
	details = rejectReserved(details, "slug", p.Slug)
	if p.ParentID.Valid && cur.ID != "" && p.ParentID.String == cur.ID {
		details = addDetail(details, "parent_id", "A page cannot be its own parent")
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}

	ctx := r.Context()
	if p.ParentID.Valid {
		if _, err := h.queries.GetPageByID(ctx, p.ParentID.String); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				handler.WriteValidationError(w, map[string]string{"parent_id": "Parent page does not exist"})
			} else {
				h.serverError(w, r, "Failed to save page", err)
			}
			return p, false
		}
	}

	exists, err := h.queries.SlugExists(ctx, p.Slug, cur.ID)
	if err != nil {
		h.serverError(w, r, "Failed to save page", err)
		return p, false
	}
	if exists {
		handler.WriteError(w, http.StatusConflict, "Slug already exists")
		return p, false
	}
	return p, true
}

// CreatePage handles POST /api/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := h.mergePage(w, r, req, store.Page{IsActive: true, ShowInMenu: true})
	if !ok {
		return
	}

	ctx := r.Context()
	id := p.Slug
	if req.ID != nil && *req.ID != "" {
		id = string(*req.ID)
	}
	id = strings.ReplaceAll(id, "/", "-")
	if details := rejectReserved(nil, "id", id); details != nil {
		handler.WriteValidationError(w, details)
		return
	}
	if _, err := h.queries.GetPageByID(ctx, id); err == nil {
		handler.WriteError(w, http.StatusConflict, "Page id already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.serverError(w, r, "Failed to create page", err)
		return
	}

	position, err := h.position(r, store.PagesOrder, number(req.Position))
	if err != nil {
		h.serverError(w, r, "Failed to create page", err)
		return
	}
	now := h.now()

	page, err := h.queries.CreatePage(ctx, store.CreatePageParams{
		ID:         id,
		Slug:       p.Slug,
		ParentID:   p.ParentID,
		TitleBg:    p.TitleBg,
		TitleEn:    p.TitleEn,
		ContentBg:  p.ContentBg,
		ContentEn:  p.ContentEn,
		Position:   position,
		IsActive:   p.IsActive,
		ShowInMenu: p.ShowInMenu,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		h.serverError(w, r, "Failed to create page", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, pageToResponse(page))
}

// UpdatePage handles PUT /api/pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, err := h.queries.GetPageByID(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Page", err)
		return
	}
	p, ok := h.mergePage(w, r, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	page, err := h.queries.UpdatePage(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update page", err)
		return
	}
	handler.WriteData(w, http.StatusOK, pageToResponse(page))
}

// DeletePage handles DELETE /api/pages/{id}. Child pages become roots.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := handler.StringParam(r, "id")
	ctx := r.Context()

	if err := h.queries.ClearPageParent(ctx, id); err != nil {
		h.serverError(w, r, "Failed to delete Page", err)
		return
	}
	n, err := h.queries.DeletePage(ctx, id)
	if err == nil && n > 0 {
		slog.Info("page deleted", "page_id", id, "user_id", middleware.GetUserID(r))
	}
	h.deleteResult(w, r, "Page", n, err)
}
