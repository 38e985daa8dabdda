// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/store"
)

// AchievementResponse represents an achievement in API responses.
type AchievementResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Year        *int64    `json:"year"`
	Position    int64     `json:"position"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AchievementRequest is the body of achievement create and update requests.
type AchievementRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Year        *Number `json:"year"`
	Position    *Number `json:"position"`
	IsActive    *Flag   `json:"is_active"`
}

func achievementToResponse(a store.Achievement) AchievementResponse {
	resp := AchievementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: ptr(a.Description),
		Position:    a.Position,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Year.Valid {
		resp.Year = &a.Year.Int64
	}
	return resp
}

func (h *Handler) listAchievements(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	items, err := h.queries.ListAchievements(r.Context(), activeOnly)
	if err != nil {
		h.serverError(w, r, "Failed to load achievements", err)
		return
	}
	resp := make([]AchievementResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, achievementToResponse(a))
	}
	handler.WriteList(w, resp)
}

func (h *Handler) getAchievement(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	a, ok := h.loadAchievement(w, r)
	if !ok {
		return
	}
	if activeOnly && !a.IsActive {
		notFound(w, "Achievement")
		return
	}
	handler.WriteData(w, http.StatusOK, achievementToResponse(a))
}

func (h *Handler) loadAchievement(w http.ResponseWriter, r *http.Request) (store.Achievement, bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Achievement")
		return store.Achievement{}, false
	}
	a, err := h.queries.GetAchievement(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Achievement", err)
		return a, false
	}
	return a, true
}

// ListAchievements handles GET /api/achievements.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	h.listAchievements(w, r, true)
}

// GetAchievement handles GET /api/achievements/{id}.
func (h *Handler) GetAchievement(w http.ResponseWriter, r *http.Request) {
	h.getAchievement(w, r, true)
}

// AdminListAchievements handles GET /api/achievements/admin.
func (h *Handler) AdminListAchievements(w http.ResponseWriter, r *http.Request) {
	h.listAchievements(w, r, false)
}

// AdminGetAchievement handles GET /api/achievements/admin/{id}.
func (h *Handler) AdminGetAchievement(w http.ResponseWriter, r *http.Request) {
	h.getAchievement(w, r, false)
}

func mergeAchievement(w http.ResponseWriter, req AchievementRequest, cur store.Achievement) (store.AchievementParams, bool) {
	if !validate(w, req) {
		return store.AchievementParams{}, false
	}
	p := store.AchievementParams{
		ID:          cur.ID,
		Title:       cur.Title,
		Description: nullHTML(req.Description, cur.Description),
		Year:        cur.Year,
		Position:    int64Or(req.Position, cur.Position),
		IsActive:    boolOr(req.IsActive, cur.IsActive),
		CreatedAt:   cur.CreatedAt,
	}
	if req.Title != nil {
		p.Title = trimmed(req.Title)
	}
	if req.Year != nil {
		// A zero year clears the column.
		p.Year = sql.NullInt64{Int64: int64(*req.Year), Valid: *req.Year != 0}
	}

	details := requireValue(nil, "title", p.Title)
	if p.Year.Valid && (p.Year.Int64 < 1800 || p.Year.Int64 > 2200) {
		details = addDetail(details, "year", "Invalid year")
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}
	return p, true
}

// CreateAchievement handles POST /api/achievements.
func (h *Handler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req AchievementRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	p, ok := mergeAchievement(w, req, store.Achievement{IsActive: true})
	if !ok {
		return
	}

	var err error
	if p.Position, err = h.position(r, store.AchievementsOrder, number(req.Position)); err != nil {
		h.serverError(w, r, "Failed to create achievement", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	a, err := h.queries.CreateAchievement(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create achievement", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, achievementToResponse(a))
}

// UpdateAchievement handles PUT /api/achievements/{id}.
func (h *Handler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	var req AchievementRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}
	cur, ok := h.loadAchievement(w, r)
	if !ok {
		return
	}
	p, ok := mergeAchievement(w, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	a, err := h.queries.UpdateAchievement(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to update achievement", err)
		return
	}
	handler.WriteData(w, http.StatusOK, achievementToResponse(a))
}

// DeleteAchievement handles DELETE /api/achievements/{id}.
func (h *Handler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Achievement")
		return
	}
	n, err := h.queries.DeleteAchievement(r.Context(), id)
	h.deleteResult(w, r, "Achievement", n, err)
}
