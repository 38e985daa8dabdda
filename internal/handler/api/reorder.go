// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/store"
)

var errEmptyReorder = errors.New("No items to reorder")

// reorderKeys are the wrapper keys the admin screens post their lists under.
var reorderKeys = []string{"items", "sections", "images", "achievements", "directors", "staffList", "links"}

type reorderItem struct {
	ID           ID      `json:"id"`
	Key          ID      `json:"key"`
	Position     *Number `json:"position"`
	DisplayOrder *Number `json:"display_order"`
	SortOrder    *Number `json:"sort_order"`
}

// parseReorder accepts a bare array of {id, position} or the same array
// wrapped under one of reorderKeys. Items without a position take their
// index in the list.
func parseReorder(body []byte) ([]store.PositionUpdate, error) {
	body = bytes.TrimSpace(body)
	var items []reorderItem

	switch {
	case len(body) == 0:
		return nil, errEmptyReorder
	case body[0] == '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, handler.ErrInvalidJSON
		}
	default:
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, handler.ErrInvalidJSON
		}
		for _, key := range reorderKeys {
			raw, ok := wrapped[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, handler.ErrInvalidJSON
			}
			break
		}
	}

	updates := make([]store.PositionUpdate, 0, len(items))
	for i, it := range items {
		id := it.ID
		if id == "" {
			id = it.Key
		}
		if id == "" {
			continue
		}
		pos := int64(i + 1)
		for _, p := range []*Number{it.Position, it.DisplayOrder, it.SortOrder} {
			if p != nil {
				pos = int64(*p)
				break
			}
		}
		updates = append(updates, store.PositionUpdate{ID: string(id), Position: pos})
	}
	if len(updates) == 0 {
		return nil, errEmptyReorder
	}
	return updates, nil
}

// reorder handles PUT/POST /{resource}/reorder for t.
func (h *Handler) reorder(t store.OrderedTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if !handler.DecodeJSONOrError(w, r, &raw) {
			return
		}

		updates, err := parseReorder(raw)
		if err != nil {
			handler.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		n, err := store.Reorder(r.Context(), h.db, t, updates)
		if err != nil {
			h.serverError(w, r, "Failed to reorder items", err)
			return
		}
		handler.WriteData(w, http.StatusOK, map[string]any{
			"message": "Order updated successfully",
			"updated": n,
		})
	}
}
