// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/store"
)

// DirectorResponse represents a former or current director.
type DirectorResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TenureStart *string   `json:"tenure_start"`
	TenureEnd   *string   `json:"tenure_end"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Position    int64     `json:"position"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DirectorRequest is the body of director create and update requests.
// Tenure values are free text such as "1923" or "1923-1931".
type DirectorRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	TenureStart *string `json:"tenure_start" validate:"omitempty,max=50"`
	TenureEnd   *string `json:"tenure_end" validate:"omitempty,max=50"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=2048"`
	Position    *Number `json:"position"`
	IsActive    *Flag   `json:"is_active"`
}

func directorToResponse(d store.Director) DirectorResponse {
	return DirectorResponse{
		ID:          d.ID,
		Name:        d.Name,
		TenureStart: ptr(d.TenureStart),
		TenureEnd:   ptr(d.TenureEnd),
		Description: ptr(d.Description),
		ImageURL:    ptr(d.ImageURL),
		Position:    d.Position,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (h *Handler) listDirectors(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	items, err := h.queries.ListDirectors(r.Context(), activeOnly)
	if err != nil {
		h.serverError(w, r, "Failed to load directors", err)
		return
	}
	resp := make([]DirectorResponse, 0, len(items))
	for _, d := range items {
		resp = append(resp, directorToResponse(d))
	}
	handler.WriteList(w, resp)
}

func (h *Handler) loadDirector(w http.ResponseWriter, r *http.Request) (store.Director, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Director")
		return store.Director{}, false
	}
	d, err := h.queries.GetDirector(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Director", err)
		return d, false
	}
	return d, true
}

// ListDirectors handles GET /api/directors.
func (h *Handler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	h.listDirectors(w, r, true)
}

// GetDirector handles GET /api/directors/{id}.
func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDirector(w, r)
	if !ok {
		return
	}
	if !d.IsActive {
		notFound(w, "Director")
		return
	}
	handler.WriteData(w, http.StatusOK, directorToResponse(d))
}

// AdminListDirectors handles GET /api/directors/admin.
func (h *Handler) AdminListDirectors(w http.ResponseWriter, r *http.Request) {
	h.listDirectors(w, r, false)
}

// AdminGetDirector handles GET /api/directors/admin/{id}.
func (h *Handler) AdminGetDirector(w http.ResponseWriter, r *http.Request) {
	if d, ok := h.loadDirector(w, r); ok {
		handler.WriteData(w, http.StatusOK, directorToResponse(d))
	}
}

func mergeDirector(w http.ResponseWriter, req DirectorRequest, cur store.Director) (store.DirectorParams, bool) {
	if !validate(w, req) {
		return store.DirectorParams{}, false
	}
	p := store.DirectorParams{
		ID:          cur.ID,
		Name:        cur.Name,
		TenureStart: nullString(req.TenureStart, cur.TenureStart),
		TenureEnd:   nullString(req.TenureEnd, cur.TenureEnd),
		Description: nullHTML(req.Description, cur.Description),
		ImageURL:    nullString(req.ImageURL, cur.ImageURL),
		Position:    int64Or(req.Position, cur.Position),
		IsActive:    boolOr(req.IsActive, cur.IsActive),
		CreatedAt:   cur.CreatedAt,
	}
	if req.Name != nil {
		p.Name = trimmed(req.Name)
	}
	if details := requireValue(nil, "name", p.Name); details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}
	return p, true
}

// CreateDirector handles POST /api/directors.
func (h *Handler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var req DirectorRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := mergeDirector(w, req, store.Director{IsActive: true})
	if !ok {
		return
	}

	var err error
	if p.Position, err = h.position(r, store.DirectorsOrder, number(req.Position)); err != nil {
		h.serverError(w, r, "Failed to create director", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	d, err := h.queries.CreateDirector(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create director", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, directorToResponse(d))
}

// UpdateDirector handles PUT /api/directors/{id}.
func (h *Handler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var req DirectorRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, ok := h.loadDirector(w, r)
	if !ok {
		return
	}
	p, ok := mergeDirector(w, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	d, err := h.queries.UpdateDirector(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update director", err)
		return
	}
	handler.WriteData(w, http.StatusOK, directorToResponse(d))
}

// DeleteDirector handles DELETE /api/directors/{id}.
func (h *Handler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Director")
		return
	}
	n, err := h.queries.DeleteDirector(r.Context(), id)
	h.deleteResult(w, r, "Director", n, err)
}
