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

// GalleryImageResponse represents a gallery image in API responses.
type GalleryImageResponse struct {
	ID            int64     `json:"id"`
	TitleBg       *string   `json:"title_bg"`
	TitleEn       *string   `json:"title_en"`
	DescriptionBg *string   `json:"description_bg"`
	DescriptionEn *string   `json:"description_en"`
	ImageURL      string    `json:"image_url"`
	ImageAltBg    *string   `json:"image_alt_bg"`
	ImageAltEn    *string   `json:"image_alt_en"`
	DisplayOrder  int64     `json:"display_order"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicGalleryImageResponse adds the localised fields.
type PublicGalleryImageResponse struct {
	GalleryImageResponse
	Title       string `json:"title"`
	Description string `json:"description"`
	Alt         string `json:"alt"`
}

// GalleryImageRequest is the body of gallery create and update requests.
type GalleryImageRequest struct {
	TitleBg       *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn       *string `json:"title_en" validate:"omitempty,max=255"`
	DescriptionBg *string `json:"description_bg"`
	DescriptionEn *string `json:"description_en"`
	ImageURL      *string `json:"image_url" validate:"omitempty,max=2048"`
	ImageAltBg    *string `json:"image_alt_bg" validate:"omitempty,max=255"`
	ImageAltEn    *string `json:"image_alt_en" validate:"omitempty,max=255"`
	DisplayOrder  *Number `json:"display_order"`
	IsPublished   *Flag   `json:"is_published"`
}

func galleryImageToResponse(g store.GalleryImage) GalleryImageResponse {
	return GalleryImageResponse{
		ID:            g.ID,
		TitleBg:       ptr(g.TitleBg),
		TitleEn:       ptr(g.TitleEn),
		DescriptionBg: ptr(g.DescriptionBg),
		DescriptionEn: ptr(g.DescriptionEn),
		ImageURL:      g.ImageURL,
		ImageAltBg:    ptr(g.ImageAltBg),
		ImageAltEn:    ptr(g.ImageAltEn),
		DisplayOrder:  g.DisplayOrder,
		IsPublished:   g.IsPublished,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func galleryImageToPublic(g store.GalleryImage, lang i18n.Lang) PublicGalleryImageResponse {
	return PublicGalleryImageResponse{
		GalleryImageResponse: galleryImageToResponse(g),
		Title:                i18n.LocalizeNull(lang, g.TitleBg, g.TitleEn),
		Description:          i18n.LocalizeNull(lang, g.DescriptionBg, g.DescriptionEn),
		Alt:                  i18n.LocalizeNull(lang, g.ImageAltBg, g.ImageAltEn),
	}
}

// ListGallery handles GET /api/gallery.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.queries.ListGalleryImages(r.Context(), true)
	if err != nil {
		h.serverError(w, r, "Failed to load gallery", err)
		return
	}
	lang := middleware.GetLanguage(r)
	resp := make([]PublicGalleryImageResponse, 0, len(images))
	for _, g := range images {
		resp = append(resp, galleryImageToPublic(g, lang))
	}
	handler.WriteList(w, resp)
}

// GetGalleryImage handles GET /api/gallery/{id}.
func (h *Handler) GetGalleryImage(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGalleryImage(w, r)
	if !ok {
		return
	}
	if !g.IsPublished {
		notFound(w, "Image")
		return
	}
	handler.WriteData(w, http.StatusOK, galleryImageToPublic(g, middleware.GetLanguage(r)))
}

// AdminListGallery handles GET /api/gallery/admin.
func (h *Handler) AdminListGallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.queries.ListGalleryImages(r.Context(), false)
	if err != nil {
		h.serverError(w, r, "Failed to load gallery", err)
		return
	}
	resp := make([]GalleryImageResponse, 0, len(images))
	for _, g := range images {
		resp = append(resp, galleryImageToResponse(g))
	}
	handler.WriteList(w, resp)
}

// AdminGetGalleryImage handles GET /api/gallery/admin/{id}.
func (h *Handler) AdminGetGalleryImage(w http.ResponseWriter, r *http.Request) {
	if g, ok := h.loadGalleryImage(w, r); ok {
		handler.WriteData(w, http.StatusOK, galleryImageToResponse(g))
	}
}

func (h *Handler) loadGalleryImage(w http.ResponseWriter, r *http.Request) (store.GalleryImage, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Image")
		return store.GalleryImage{}, false
	}
	g, err := h.queries.GetGalleryImage(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Image", err)
		return g, false
	}
	return g, true
}

func mergeGalleryImage(w http.ResponseWriter, req GalleryImageRequest, cur store.GalleryImage) (store.GalleryImageParams, bool) {
	if !validate(w, req) {
		return store.GalleryImageParams{}, false
	}
	p := store.GalleryImageParams{
		ID:            cur.ID,
		TitleBg:       nullString(req.TitleBg, cur.TitleBg),
		TitleEn:       nullString(req.TitleEn, cur.TitleEn),
		DescriptionBg: nullHTML(req.DescriptionBg, cur.DescriptionBg),
		DescriptionEn: nullHTML(req.DescriptionEn, cur.DescriptionEn),
		ImageURL:      cur.ImageURL,
		ImageAltBg:    nullString(req.ImageAltBg, cur.ImageAltBg),
		ImageAltEn:    nullString(req.ImageAltEn, cur.ImageAltEn),
		DisplayOrder:  int64Or(req.DisplayOrder, cur.DisplayOrder),
		IsPublished:   boolOr(req.IsPublished, cur.IsPublished),
		CreatedAt:     cur.CreatedAt,
	}
	if req.ImageURL != nil {
		p.ImageURL = trimmed(req.ImageURL)
	}
	if details := requireValue(nil, "image_url", p.ImageURL); details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}
	return p, true
}

// CreateGalleryImage handles POST /api/gallery.
func (h *Handler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req GalleryImageRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := mergeGalleryImage(w, req, store.GalleryImage{IsPublished: true})
	if !ok {
		return
	}

	var err error
	if p.DisplayOrder, err = h.position(r, store.GalleryOrder, number(req.DisplayOrder)); err != nil {
		h.serverError(w, r, "Failed to create image", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	g, err := h.queries.CreateGalleryImage(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create image", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, galleryImageToResponse(g))
}

// UpdateGalleryImage handles PUT /api/gallery/{id}.
func (h *Handler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req GalleryImageRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, ok := h.loadGalleryImage(w, r)
	if !ok {
		return
	}
	p, ok := mergeGalleryImage(w, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	g, err := h.queries.UpdateGalleryImage(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update image", err)
		return
	}
	handler.WriteData(w, http.StatusOK, galleryImageToResponse(g))
}

// DeleteGalleryImage handles DELETE /api/gallery/{id}.
func (h *Handler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Image")
		return
	}
	n, err := h.queries.DeleteGalleryImage(r.Context(), id)
	h.deleteResult(w, r, "Image", n, err)
}
