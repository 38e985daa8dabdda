// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
)

// EventResponse represents a calendar event in API responses.
type EventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   string    `json:"event_date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Type        string    `json:"type"`
	Location    *string   `json:"location"`
	Locale      string    `json:"locale"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventRequest is the body of event create and update requests.
type EventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Type        *string `json:"type"`
	Location    *string `json:"location"`
	Locale      *string `json:"locale"`
	IsActive    *Flag   `json:"is_active"`
}

// eventValues holds the merged scalar fields of an event for validation.
type eventValues struct {
	Title     string `json:"title" validate:"required,max=255"`
	EventDate string `json:"event_date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
	Type      string `json:"type" validate:"eventtype"`
	Locale    string `json:"locale" validate:"oneof=bg en"`
}

func eventToResponse(e store.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: ptr(e.Description),
		EventDate:   e.EventDate,
		StartTime:   ptr(e.StartTime),
		EndTime:     ptr(e.EndTime),
		Type:        e.EventType,
		Location:    ptr(e.Location),
		Locale:      e.Locale,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventsToResponse(events []store.Event) []EventResponse {
	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, eventToResponse(e))
	}
	return resp
}

// eventFilter reads ?locale=, ?type=, ?from=, ?to= and ?upcoming=1.
// Returns false if the response has been written.
func (h *Handler) eventFilter(w http.ResponseWriter, r *http.Request, activeOnly bool) (store.EventFilter, bool) {
	q := r.URL.Query()
	f := store.EventFilter{
		ActiveOnly: activeOnly,
		Type:       q.Get("type"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}

	if locale := q.Get("locale"); locale != "" {
		lang, ok := i18n.Parse(locale)
		if !ok {
			handler.WriteError(w, http.StatusBadRequest, "Invalid locale")
			return f, false
		}
		f.Locale = string(lang)
	}
	if f.Type != "" && !model.IsValidEventType(f.Type) {
		handler.WriteError(w, http.StatusBadRequest, "Invalid event type")
		return f, false
	}
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			handler.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return f, false
		}
	}
	if handler.QueryBool(r, "upcoming") {
		today := h.now().In(h.loc).Format(model.DateLayout)
		if f.From < today {
			f.From = today
		}
	}
	return f, true
}

// ListEvents handles GET /api/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	f, ok := h.eventFilter(w, r, true)
	if !ok {
		return
	}
	events, err := h.queries.ListEvents(r.Context(), f)
	if err != nil {
		h.serverError(w, r, "Failed to load events", err)
		return
	}
	handler.WriteList(w, eventsToResponse(events))
}

// GetEvent handles GET /api/events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	h.getEvent(w, r, true)
}

// AdminListEvents handles GET /api/events/admin. Accepts the public filters.
func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	f, ok := h.eventFilter(w, r, false)
	if !ok {
		return
	}
	events, err := h.queries.ListEvents(r.Context(), f)
	if err != nil {
		h.serverError(w, r, "Failed to load events", err)
		return
	}
	handler.WriteList(w, eventsToResponse(events))
}

// AdminGetEvent handles GET /api/events/admin/{id}.
func (h *Handler) AdminGetEvent(w http.ResponseWriter, r *http.Request) {
	h.getEvent(w, r, false)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Event")
		return
	}
	e, err := h.queries.GetEvent(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "Event", err)
		return
	}
	if activeOnly && !e.IsActive {
		notFound(w, "Event")
		return
	}
	handler.WriteData(w, http.StatusOK, eventToResponse(e))
}

// CreateEvent handles POST /api/events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}

	cur := store.Event{EventType: model.EventTypeOther, Locale: string(i18n.BG), IsActive: true}
	params, ok := mergeEvent(w, req, cur)
	if !ok {
		return
	}

	now := h.now()
	e, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Title:       params.Title,
		Description: params.Description,
		EventDate:   params.EventDate,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		EventType:   params.EventType,
		Location:    params.Location,
		Locale:      params.Locale,
		IsActive:    params.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.serverError(w, r, "Failed to create event", err)
		return
	}
	handler.WriteData(w, http.StatusCreated, eventToResponse(e))
}

// UpdateEvent handles PUT /api/events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Event")
		return
	}

	var req EventRequest
	if !handler.DecodeJSONOrError(w, r, &req) {
		return
	}

	ctx := r.Context()
	cur, err := h.queries.GetEvent(ctx, id)
	if err != nil {
		h.notFoundOrError(w, r, "Event", err)
		return
	}

	params, ok := mergeEvent(w, req, cur)
	if !ok {
		return
	}
	params.ID = id
	params.UpdatedAt = h.now()

	e, err := h.queries.UpdateEvent(ctx, params)
	if err != nil {
		h.serverError(w, r, "Failed to update event", err)
		return
	}
	handler.WriteData(w, http.StatusOK, eventToResponse(e))
}

// mergeEvent applies req over cur and validates the result.
func mergeEvent(w http.ResponseWriter, req EventRequest, cur store.Event) (store.UpdateEventParams, bool) {
	p := store.UpdateEventParams{
		Title:       cur.Title,
		Description: nullHTML(req.Description, cur.Description),
		EventDate:   cur.EventDate,
		StartTime:   nullString(req.StartTime, cur.StartTime),
		EndTime:     nullString(req.EndTime, cur.EndTime),
		EventType:   cur.EventType,
		Location:    nullString(req.Location, cur.Location),
		Locale:      cur.Locale,
		IsActive:    boolOr(req.IsActive, cur.IsActive),
	}
	if req.Title != nil {
		p.Title = trimmed(req.Title)
	}
	if req.EventDate != nil {
		p.EventDate = trimmed(req.EventDate)
	}
	if t := trimmed(req.Type); t != "" {
		p.EventType = t
	}
	if l := trimmed(req.Locale); l != "" {
		p.Locale = l
	}

	ok := validate(w, eventValues{
		Title:     p.Title,
		EventDate: p.EventDate,
		StartTime: p.StartTime.String,
		EndTime:   p.EndTime.String,
		Type:      p.EventType,
		Locale:    p.Locale,
	})
	return p, ok
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "Event")
		return
	}
	n, err := h.queries.DeleteEvent(r.Context(), id)
	h.deleteResult(w, r, "Event", n, err)
}
