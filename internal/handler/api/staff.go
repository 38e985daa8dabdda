// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/util"
)

// StaffResponse represents a staff member in API responses.
type StaffResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Role         *string   `json:"role"`
	Department   *string   `json:"department"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	Bio          *string   `json:"bio"`
	ImageURL     *string   `json:"image_url"`
	ImageAltText *string   `json:"image_alt_text"`
	SortOrder    int64     `json:"sort_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffRequest is the body of staff create and update requests.
type StaffRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Role         *string `json:"role" validate:"omitempty,max=255"`
	Department   *string `json:"department" validate:"omitempty,max=255"`
	Email        *string `json:"email" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Bio          *string `json:"bio"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=2048"`
	ImageAltText *string `json:"image_alt_text" validate:"omitempty,max=255"`
	SortOrder    *Number `json:"sort_order"`
	IsActive     *Flag   `json:"is_active"`
}

// StaffImageRequest is the body of PUT /staff/{id}/image.
type StaffImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,max=2048"`
	AltText  string `json:"alt_text" validate:"omitempty,max=255"`
}

func staffToResponse(s store.StaffMember) StaffResponse {
	return StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Role:         ptr(s.Role),
		Department:   ptr(s.Department),
		Email:        ptr(s.Email),
		Phone:        ptr(s.Phone),
		Bio:          ptr(s.Bio),
		ImageURL:     ptr(s.ImageURL),
		ImageAltText: ptr(s.ImageAltText),
		SortOrder:    s.SortOrder,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	staff, err := h.queries.ListStaff(r.Context(), activeOnly)
	if err != nil {
		h.serverError(w, r, "Failed to load staff", err)
		return
	}
	resp := make([]StaffResponse, 0, len(staff))
	for _, s := range staff {
		resp = append(resp, staffToResponse(s))
	}
	handler.WriteList(w, resp)
}

func (h *Handler) getStaff(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Staff member")
		return
	}
	s, err := h.queries.GetStaffMember(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Staff member", err)
		return
	}
	if activeOnly && !s.IsActive {
		notFound(w, "Staff member")
		return
	}
	handler.WriteData(w, http.StatusOK, staffToResponse(s))
}

// ListStaff handles GET /api/staff.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) { h.listStaff(w, r, true) }

// GetStaff handles GET /api/staff/{id}.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) { h.getStaff(w, r, true) }

// AdminListStaff handles GET /api/staff/admin.
func (h *Handler) AdminListStaff(w http.ResponseWriter, r *http.Request) { h.listStaff(w, r, false) }

// AdminGetStaff handles GET /api/staff/admin/{id}.
func (h *Handler) AdminGetStaff(w http.ResponseWriter, r *http.Request) { h.getStaff(w, r, false) }

// mergeStaff applies req over cur. Returns false if the response has been
// written.
func mergeStaff(w http.ResponseWriter, req StaffRequest, cur store.StaffMember) (store.StaffMemberParams, bool) {
	if !validate(w, req) {
		return store.StaffMemberParams{}, false
	}

	p := store.StaffMemberParams{
		ID:           cur.ID,
		Name:         cur.Name,
		Role:         nullString(req.Role, cur.Role),
		Department:   nullString(req.Department, cur.Department),
		Email:        nullString(req.Email, cur.Email),
		Phone:        nullString(req.Phone, cur.Phone),
		Bio:          nullHTML(req.Bio, cur.Bio),
		ImageURL:     nullString(req.ImageURL, cur.ImageURL),
		ImageAltText: nullString(req.ImageAltText, cur.ImageAltText),
		SortOrder:    int64Or(req.SortOrder, cur.SortOrder),
		IsActive:     boolOr(req.IsActive, cur.IsActive),
		CreatedAt:    cur.CreatedAt,
	}
	if req.Name != nil {
		p.Name = trimmed(req.Name)
	}

	details := requireValue(nil, "name", p.Name)
	if p.Email.Valid {
		if d := handler.Validate(struct {
			Email string `json:"email" validate:"email"`
		}{p.Email.String}); d != nil {
			details = addDetail(details, "email", d["email"])
		}
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return p, false
	}
	return p, true
}

// CreateStaff handles POST /api/staff.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}

	p, ok := mergeStaff(w, req, store.StaffMember{IsActive: true})
	if !ok {
		return
	}

	var err error
	if p.SortOrder, err = h.position(r, store.StaffOrder, number(req.SortOrder)); err != nil {
		h.serverError(w, r, "Failed to create staff member", err)
		return
	}
	p.CreatedAt = h.now()
	p.UpdatedAt = p.CreatedAt

	s, err := h.queries.CreateStaffMember(r.Context(), p)
	if err != nil {
		h.serverError(w, r, "Failed to create staff member", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, staffToResponse(s))
}

// UpdateStaff handles PUT /api/staff/{id}.
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Staff member")
		return
	}

	var req StaffRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}

	ctx := r.Context()
	cur, err := h.queries.GetStaffMember(ctx, id)
	if err != nil {
		h.notFoundOrError(w, r, "Staff member", err)
		return
	}

	p, ok := mergeStaff(w, req, cur)
	if !ok {
		return
	}
	p.UpdatedAt = h.now()

	s, err := h.queries.UpdateStaffMember(ctx, p)
	if err != nil {
		h.serverError(w, r, "Failed to update staff member", err)
		return
	}
	handler.WriteData(w, http.StatusOK, staffToResponse(s))
}

// DeleteStaff handles DELETE /api/staff/{id}.
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Staff member")
		return
	}
	n, err := h.queries.DeleteStaffMember(r.Context(), id)
	h.deleteResult(w, r, "Staff member", n, err)
}

// SetStaffImage handles PUT /api/staff/{id}/image.
func (h *Handler) SetStaffImage(w http.ResponseWriter, r *http.Request) {
	var req StaffImageRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}
	h.updateStaffImage(w, r, util.NullStringTrimmed(req.ImageURL), util.NullStringTrimmed(req.AltText))
}

// DeleteStaffImage handles DELETE /api/staff/{id}/image. Only the reference
// is cleared; the uploaded file stays in the pictures directory.
func (h *Handler) DeleteStaffImage(w http.ResponseWriter, r *http.Request) {
	h.updateStaffImage(w, r, sql.NullString{}, sql.NullString{})
}

func (h *Handler) updateStaffImage(w http.ResponseWriter, r *http.Request, url, alt sql.NullString) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Staff member")
		return
	}

	ctx := r.Context()
	if _, err := h.queries.GetStaffMember(ctx, id); err != nil {
		h.notFoundOrError(w, r, "Staff member", err)
		return
	}
	if err := h.queries.UpdateStaffImage(ctx, id, url, alt, h.now()); err != nil {
		h.serverError(w, r, "Failed to update staff image", err)
		return
	}

	s, err := h.queries.GetStaffMember(ctx, id)
	if err != nil {
		h.serverError(w, r, "Failed to load staff member", err)
		return
	}
	handler.WriteData(w, http.StatusOK, staffToResponse(s))
}
