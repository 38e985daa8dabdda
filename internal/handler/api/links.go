// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
)

// UsefulLinkResponse represents a useful link in API responses.
type UsefulLinkResponse struct {
	ID            int64     `json:"id"`
	LinkKey       *string   `json:"link_key"`
	TitleBg       *string   `json:"title_bg"`
	TitleEn       *string   `json:"title_en"`
	DescriptionBg *string   `json:"description_bg"`
	DescriptionEn *string   `json:"description_en"`
	URL           string    `json:"url"`
	CtaBg         *string   `json:"cta_bg"`
	CtaEn         *string   `json:"cta_en"`
	Position      int64     `json:"position"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicUsefulLinkResponse adds the localised fields.
type PublicUsefulLinkResponse struct {
	UsefulLinkResponse
	Title       string `json:"title"`
	Description string `json:"description"`
	Cta         string `json:"cta"`
}

// UsefulLinkRequest is the body of link create and update requests.
type UsefulLinkRequest struct {
	LinkKey       *string `json:"link_key" validate:"omitempty,max=100"`
	TitleBg       *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn       *string `json:"title_en" validate:"omitempty,max=255"`
	DescriptionBg *string `json:"description_bg"`
	DescriptionEn *string `json:"description_en"`
	URL           *string `json:"url"`
	CtaBg         *string `json:"cta_bg" validate:"omitempty,max=100"`
	CtaEn         *string `json:"cta_en" validate:"omitempty,max=100"`
	Position      *Number `json:"position"`
	IsActive      *Flag   `json:"is_active"`
}

func linkToResponse(l store.UsefulLink) UsefulLinkResponse {
	return UsefulLinkResponse{
		ID:            l.ID,
		LinkKey:       ptr(l.LinkKey),
		TitleBg:       ptr(l.TitleBg),
		TitleEn:       ptr(l.TitleEn),
		DescriptionBg: ptr(l.DescriptionBg),
		DescriptionEn: ptr(l.DescriptionEn),
		URL:           l.URL,
		CtaBg:         ptr(l.CtaBg),
		CtaEn:         ptr(l.CtaEn),
		Position:      l.Position,
		IsActive:      l.IsActive,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func linkToPublic(l store.UsefulLink, lang i18n.Lang) PublicUsefulLinkResponse {
	return PublicUsefulLinkResponse{
		UsefulLinkResponse: linkToResponse(l),
		Title:              i18n.LocalizeNull(lang, l.TitleBg, l.TitleEn),
		Description:        i18n.LocalizeNull(lang, l.DescriptionBg, l.DescriptionEn),
		Cta:                i18n.LocalizeNull(lang, l.CtaBg, l.CtaEn),
	}
}

// ListLinks handles GET /api/useful-links.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.queries.ListUsefulLinks(r.Context(), true)
	if err != nil {
		h.serverError(w, r, "Failed to load links", err)
		return
	}
	lang := middleware.GetLanguage(r)
	resp := make([]PublicUsefulLinkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, linkToPublic(l, lang))
	}
	handler.WriteList(w, resp)
}

// GetLink handles GET /api/useful-links/{id}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLink(w, r)
	if !ok {
		return
	}
	if !l.IsActive {
		notFound(w, "Link")
		return
	}
	handler.WriteData(w, http.StatusOK, linkToPublic(l, middleware.GetLanguage(r)))
}

// AdminListLinks handles GET /api/useful-links/admin.
func (h *Handler) AdminListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.queries.ListUsefulLinks(r.Context(), false)
	if err != nil {
		h.serverError(w, r, "Failed to load links", err)
		return
	}
	resp := make([]UsefulLinkResponse, 0, len(links))
	for _, l := range links {
		resp = append(resp, linkToResponse(l))
	}
	handler.WriteList(w, resp)
}

// AdminGetLink handles GET /api/useful-links/admin/{id}.
func (h *Handler) AdminGetLink(w http.ResponseWriter, r *http.Request) {
	if l, ok := h.loadLink(w, r); ok {
		handler.WriteData(w, http.StatusOK, linkToResponse(l))
	}
}

func (h *Handler) loadLink(w http.ResponseWriter, r *http.Request) (store.UsefulLink, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Link")
		return store.UsefulLink{}, false
	}
	l, err := h.queries.GetUsefulLink(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Link", err)
		return l, false
	}
	return l, true
}

// mergeLink applies req over cur, validating the URL and the key.
func (h *Handler) mergeLink(w http.ResponseWriter, r *http.Request, req UsefulLinkRequest, cur store.UsefulLink) (store.UsefulLinkParams, bool) {
	if !validate(w, req) {
		return store.UsefulLinkParams{}, false
	}
	p := store.UsefulLinkParams{
		ID:            cur.ID,
		LinkKey:       nullString(req.LinkKey, cur.LinkKey),
		TitleBg:       nullString(req.TitleBg, cur.TitleBg),
		TitleEn:       nullString(req.TitleEn, cur.TitleEn),
		DescriptionBg: nullHTML(req.DescriptionBg, cur.DescriptionBg),
		DescriptionEn: nullHTML(req.DescriptionEn, cur.DescriptionEn),
		URL:           cur.URL,
		CtaBg:         nullString(req.CtaBg, cur.CtaBg),
		CtaEn:         nullString(req.CtaEn, cur.CtaEn),
		Position:      int64Or(req.Position, cur.Position),
		IsActive:      boolOr(req.IsActive, cur.IsActive),
		CreatedAt:     cur.CreatedAt,
	}
	if req.URL != nil {
		p.URL = trimmed(req.URL)
	}

	details := requireOneOf(nil, "title", "title_bg or title_en is required", p.TitleBg, p.TitleEn)
	if p.URL == "" {
		details = addDetail(details, "url", "url is required")
	} else if d := handler.Validate(struct {
		URL string `json:"url" validate:"weburl"`
	}{p.URL}); d != nil {
		details = addDetail(details, "url", d["url"])
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}

	if p.LinkKey.Valid {
		exists, err := h.queries.LinkKeyExists(r.Context(), p.LinkKey.String, cur.ID)
		if err != nil {
			h.serverError(w, r, "Failed to save link", err)
			return p, false
		}
		if exists {
			handler.WriteError(w, http.StatusConflict, "Link key already exists")
			return p, false
		}
	}
	return p, true
}

// CreateLink handles POST /api/useful-links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req UsefulLinkRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := h.mergeLink(w, r, req, store.UsefulLink{IsActive: true})
	if !ok {
		return
	}

	var err error
	if p.Position, err = h.position(r, store.UsefulLinksOrder, number(req.Position)); err != nil {
		h.serverError(w, r, "Failed to create link", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	l, err := h.queries.CreateUsefulLink(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create link", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, linkToResponse(l))
}

// UpdateLink handles PUT /api/useful-links/{id}.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req UsefulLinkRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, ok := h.loadLink(w, r)
	if !ok {
		return
	}
	p, ok := h.mergeLink(w, r, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	l, err := h.queries.UpdateUsefulLink(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update link", err)
		return
	}
	handler.WriteData(w, http.StatusOK, linkToResponse(l))
}

// DeleteLink handles DELETE /api/useful-links/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Link")
		return
	}
	n, err := h.queries.DeleteUsefulLink(r.Context(), id)
	h.deleteResult(w, r, "Link", n, err)
}
