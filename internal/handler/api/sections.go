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

// SectionResponse represents a history or patron section in admin responses.
type SectionResponse struct {
	ID         int64     `json:"id"`
	SectionKey string    `json:"section_key"`
	TitleBg    *string   `json:"title_bg"`
	TitleEn    *string   `json:"title_en"`
	ContentBg  *string   `json:"content_bg"`
	ContentEn  *string   `json:"content_en"`
	ImageURL   *string   `json:"image_url"`
	Position   int64     `json:"position"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicSectionResponse is the localised public form of a section.
type PublicSectionResponse struct {
	ID         int64   `json:"id"`
	SectionKey string  `json:"section_key"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	ImageURL   *string `json:"image_url"`
	Position   int64   `json:"position"`
}

// SectionRequest is the body of section create and update requests.
type SectionRequest struct {
	SectionKey *string `json:"section_key" validate:"omitempty,max=100"`
	TitleBg    *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn    *string `json:"title_en" validate:"omitempty,max=255"`
	ContentBg  *string `json:"content_bg"`
	ContentEn  *string `json:"content_en"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=2048"`
	Position   *Number `json:"position"`
	IsActive   *Flag   `json:"is_active"`
}

func sectionToResponse(s store.Section) SectionResponse {
	return SectionResponse{
		ID:         s.ID,
		SectionKey: s.SectionKey,
		TitleBg:    ptr(s.TitleBg),
		TitleEn:    ptr(s.TitleEn),
		ContentBg:  ptr(s.ContentBg),
		ContentEn:  ptr(s.ContentEn),
		ImageURL:   ptr(s.ImageURL),
		Position:   s.Position,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func sectionToPublic(s store.Section, lang i18n.Lang) PublicSectionResponse {
	return PublicSectionResponse{
		ID:         s.ID,
		SectionKey: s.SectionKey,
		Title:      i18n.LocalizeNull(lang, s.TitleBg, s.TitleEn),
		Content:    i18n.LocalizeNull(lang, s.ContentBg, s.ContentEn),
		ImageURL:   ptr(s.ImageURL),
		Position:   s.Position,
	}
}

// sectionResource serves one of the keyed section tables. History and
// patron pages share the same handlers.
type sectionResource struct {
	h     *Handler
	table store.SectionTable
	order store.OrderedTable
}

func (h *Handler) sections(table store.SectionTable, order store.OrderedTable) *sectionResource {
	return &sectionResource{h: h, table: table, order: order}
}

func (s *sectionResource) list(w http.ResponseWriter, r *http.Request) {
	sections, err := s.h.queries.ListSections(r.Context(), s.table, true)
	if err != nil {
		s.h.serverError(w, r, "Failed to load sections", err)
		return
	}
	lang := middleware.GetLanguage(r)
	resp := make([]PublicSectionResponse, 0, len(sections))
	for _, sec := range sections {
		resp = append(resp, sectionToPublic(sec, lang))
	}
	handler.WriteList(w, resp)
}

// get accepts a numeric id or a section key.
func (s *sectionResource) get(w http.ResponseWriter, r *http.Request) {
	var (
		sec store.Section
		err error
	)
	if id, ok := handler.ParseIDParam(r, "id"); ok {
		sec, err = s.h.queries.GetSection(r.Context(), s.table, id)
	} else {
		sec, err = s.h.queries.GetSectionByKey(r.Context(), s.table, handler.StringParam(r, "id"))
	}
	if err != nil {
		s.h.notFoundOrError(w, r, "Section", err)
		return
	}
	if !sec.IsActive {
		notFound(w, "Section")
		return
	}
	handler.WriteData(w, http.StatusOK, sectionToPublic(sec, middleware.GetLanguage(r)))
}

func (s *sectionResource) adminList(w http.ResponseWriter, r *http.Request) {
	sections, err := s.h.queries.ListSections(r.Context(), s.table, false)
	if err != nil {
		s.h.serverError(w, r, "Failed to load sections", err)
		return
	}
	resp := make([]SectionResponse, 0, len(sections))
	for _, sec := range sections {
		resp = append(resp, sectionToResponse(sec))
	}
	handler.WriteList(w, resp)
}

func (s *sectionResource) adminGet(w http.ResponseWriter, r *http.Request) {
	if sec, ok := s.load(w, r); ok {
		handler.WriteData(w, http.StatusOK, sectionToResponse(sec))
	}
}

func (s *sectionResource) load(w http.ResponseWriter, r *http.Request) (store.Section, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Section")
		return store.Section{}, false
	}
	sec, err := s.h.queries.GetSection(r.Context(), s.table, id)
	if err != nil {
		s.h.notFoundOrError(w, r, "Section", err)
		return sec, false
	}
	return sec, true
}

// merge applies req over cur, validating the key and its uniqueness.
func (s *sectionResource) merge(w http.ResponseWriter, r *http.Request, req SectionRequest, cur store.Section) (store.SectionParams, bool) {
	if !validate(w, req) {
		return store.SectionParams{}, false
	}
	p := store.SectionParams{
		ID:         cur.ID,
		SectionKey: cur.SectionKey,
		TitleBg:    nullString(req.TitleBg, cur.TitleBg),
		TitleEn:    nullString(req.TitleEn, cur.TitleEn),
		ContentBg:  nullHTML(req.ContentBg, cur.ContentBg),
		ContentEn:  nullHTML(req.ContentEn, cur.ContentEn),
		ImageURL:   nullString(req.ImageURL, cur.ImageURL),
		Position:   int64Or(req.Position, cur.Position),
		IsActive:   boolOr(req.IsActive, cur.IsActive),
		CreatedAt:  cur.CreatedAt,
	}
	if req.SectionKey != nil {
		p.SectionKey = trimmed(req.SectionKey)
	}
	if details := requireValue(nil, "section_key", p.SectionKey); details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}

	exists, err := s.h.queries.SectionKeyExists(r.Context(), s.table, p.SectionKey, cur.ID)
	if err != nil {
		s.h.serverError(w, r, "Failed to save section", err)
		return p, false
	}
	if exists {
		handler.WriteError(w, http.StatusConflict, "Section key already exists")
		return p, false
	}
	return p, true
}

func (s *sectionResource) create(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := s.merge(w, r, req, store.Section{IsActive: true})
	if !ok {
		return
	}

	var err error
	if p.Position, err = s.h.position(r, s.order, number(req.Position)); err != nil {
		s.h.serverError(w, r, "Failed to create section", err)
		return
	}
	p.CreatedAt = s.h.now()
	p.UpdatedAt = p.CreatedAt

	sec, err := s.h.queries.CreateSection(r.Context(), s.table, p)
	if err != nil {
		s.h.serverError(w, r, "Failed to create section", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, sectionToResponse(sec))
}

func (s *sectionResource) update(w http.ResponseWriter, r *http.Request) {
	var req SectionRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, ok := s.load(w, r)
	if !ok {
		return
	}
	p, ok := s.merge(w, r, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = s.h.now()

	sec, err := s.h.queries.UpdateSection(r.Context(), s.table, p)
	if err != nil {
		s.h.serverError(w, r, "Failed to update section", err)
		return
	}
	handler.WriteData(w, http.StatusOK, sectionToResponse(sec))
}

func (s *sectionResource) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Section")
		return
	}
	n, err := s.h.queries.DeleteSection(r.Context(), s.table, id)
	s.h.deleteResult(w, r, "Section", n, err)
}
