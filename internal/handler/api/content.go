package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
)

// ContentSectionResponse represents a keyed block of site text.
type ContentSectionResponse struct {
	Key       string    `json:"key"`
	TitleBg   *string   `json:"title_bg"`
	TitleEn   *string   `json:"title_en"`
	ValueBg   *string   `json:"value_bg"`
	ValueEn   *string   `json:"value_en"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicContentSectionResponse is the localised form of a content section.
type PublicContentSectionResponse struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Value    string `json:"value"`
	Position int64  `json:"position"`
}

// ContentSectionRequest is the body of content create and save requests.
type ContentSectionRequest struct {
	Key      *string `json:"key" validate:"omitempty,max=100"`
	TitleBg  *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn  *string `json:"title_en" validate:"omitempty,max=255"`
	ValueBg  *string `json:"value_bg"`
	ValueEn  *string `json:"value_en"`
	Position *Number `json:"position"`
	IsActive *Flag   `json:"is_active"`
}

func contentToResponse(c store.ContentSection) ContentSectionResponse {
	return ContentSectionResponse{
		Key:       c.Key,
		TitleBg:   ptr(c.TitleBg),
		TitleEn:   ptr(c.TitleEn),
		ValueBg:   ptr(c.ValueBg),
		ValueEn:   ptr(c.ValueEn),
		Position:  c.Position,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func contentToPublic(c store.ContentSection, lang i18n.Lang) PublicContentSectionResponse {
	return PublicContentSectionResponse{
		Key:      c.Key,
		Title:    i18n.LocalizeNull(lang, c.TitleBg, c.TitleEn),
		Value:    i18n.LocalizeNull(lang, c.ValueBg, c.ValueEn),
		Position: c.Position,
	}
}

// ListContent handles GET /api/content.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListContentSections(r.Context(), true)
	if err != nil {
		h.serverError(w, r, "Failed to load content", err)
		return
	}
	lang := middleware.GetLanguage(r)
	resp := make([]PublicContentSectionResponse, 0, len(sections))
	for _, c := range sections {
		resp = append(resp, contentToPublic(c, lang))
	}
	handler.WriteList(w, resp)
}

// GetContent handles GET /api/content/{id}.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.queries.GetContentSection(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Content section", err)
		return
	}
	if !c.IsActive {
		notFound(w, "Content section")
		return
	}
	handler.WriteData(w, http.StatusOK, contentToPublic(c, middleware.GetLanguage(r)))
}

// AdminListContent handles GET /api/content/admin.
func (h *Handler) AdminListContent(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListContentSections(r.Context(), false)
	if err != nil {
		h.serverError(w, r, "Failed to load content", err)
		return
	}
	resp := make([]ContentSectionResponse, 0, len(sections))
	for _, c := range sections {
		resp = append(resp, contentToResponse(c))
	}
	handler.WriteList(w, resp)
}

// AdminGetContent handles GET /api/content/admin/{id}.
func (h *Handler) AdminGetContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.queries.GetContentSection(r.Context(), handler.StringParam(r, "id"))
	if err != nil {
		h.notFoundOrError(w, r, "Content section", err)
		return
	}
	handler.WriteData(w, http.StatusOK, contentToResponse(c))
}

func mergeContent(req ContentSectionRequest, cur store.ContentSection) store.ContentSectionParams {
	return store.ContentSectionParams{
		Key:       cur.Key,
		TitleBg:   nullString(req.TitleBg, cur.TitleBg),
		TitleEn:   nullString(req.TitleEn, cur.TitleEn),
		ValueBg:   nullHTML(req.ValueBg, cur.ValueBg),
		ValueEn:   nullHTML(req.ValueEn, cur.ValueEn),
		Position:  int64Or(req.Position, cur.Position),
		IsActive:  boolOr(req.IsActive, cur.IsActive),
		CreatedAt: cur.CreatedAt,
	}
}

// CreateContent handles POST /api/content. The key comes from the body.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req ContentSectionRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}
	key := trimmed(req.Key)
	details := rejectReserved(requireValue(nil, "key", key), "key", key)
	if details != nil {
		handler.WriteValidationError(w, details)
		return
	}

	_, err := h.queries.GetContentSection(r.Context(), key)
	switch {
	case err == nil:
		handler.WriteError(w, http.StatusConflict, "Content key already exists")
		return
	case !errors.Is(err, sql.ErrNoRows):
		h.serverError(w, r, "Failed to create content section", err)
		return
	}
	h.createContent(w, r, key, req)
}

func (h *Handler) createContent(w http.ResponseWriter, r *http.Request, key string, req ContentSectionRequest) {
	p := mergeContent(req, store.ContentSection{Key: key, IsActive: true})

	var err error
	if p.Position, err = h.position(r, store.ContentOrder, number(req.Position)); err != nil {
		h.serverError(w, r, "Failed to create content section", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	c, err := h.queries.CreateContentSection(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create content section", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, contentToResponse(c))
}

// SaveContent handles PUT /api/content/{id}. A missing key is created.
func (h *Handler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req ContentSectionRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}
	key := handler.StringParam(r, "id")
	if key == "" {
		notFound(w, "Content section")
		return
	}
	if details := rejectReserved(nil, "key", key); details != nil {
		handler.WriteValidationError(w, details)
		return
	}

	cur, err := h.queries.GetContentSection(r.Context(), key)
	if errors.Is(err, sql.ErrNoRows) {
		h.createContent(w, r, key, req)
		return
	}
	if err != nil {
		h.serverError(w, r, "Failed to load content section", err)
		return
	}

	p := mergeContent(req, cur)
	p.UpdatedAt = h.now()
	c, err := h.queries.UpdateContentSection(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update content section", err)
		return
	}
	handler.WriteData(w, http.StatusOK, contentToResponse(c))
}

// DeleteContent handles DELETE /api/content/{id}.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	n, err := h.queries.DeleteContentSection(r.Context(), handler.StringParam(r, "id"))
	h.deleteResult(w, r, "Content section", n, err)
}
