// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
)

func createStaff(t *testing.T, a *testAPI, body map[string]any) StaffResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/staff", a.editorToken, body)
	expectStatus(t, w, http.StatusCreated)
	return unmarshalData[StaffResponse](t, w)
}

func TestCreateStaffAppendsSortOrder(t *testing.T) {
	a := newTestAPI(t)

	first := createStaff(t, a, map[string]any{"name": "Ivan"})
	second := createStaff(t, a, map[string]any{"name": "Maria"})
	if second.SortOrder != first.SortOrder+1 {
		t.Errorf("sort_order = %d, %d; want consecutive", first.SortOrder, second.SortOrder)
	}

	explicit := createStaff(t, a, map[string]any{"name": "Petar", "sort_order": "10"})
	if explicit.SortOrder != 10 {
		t.Errorf("explicit sort_order = %d, want 10", explicit.SortOrder)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(http.MethodPost, "/api/staff", a.editorToken, map[string]any{"role": "Teacher"})
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w = a.do(http.MethodPost, "/api/staff", a.editorToken, map[string]any{"name": "Ivan", "email": "not-an-email"})
	expectStatus(t, w, http.StatusUnprocessableEntity)
	if _, ok := validationDetails(t, w)["email"]; !ok {
		t.Errorf("details = %v, want email", validationDetails(t, w))
	}

	if n := countRows(t, a.db, "school_staff"); n != 0 {
		t.Errorf("school_staff has %d rows", n)
	}
}

func TestStaffImage(t *testing.T) {
	a := newTestAPI(t)
	s := createStaff(t, a, map[string]any{"name": "Ivan", "role": "Teacher"})
	path := "/api/staff/" + itoa(s.ID) + "/image"

	w := a.do(http.MethodPut, path, a.editorToken, map[string]any{
		"image_url": "/uploads/pictures/ivan.jpg", "alt_text": "Portrait",
	})
	expectStatus(t, w, http.StatusOK)
	got := unmarshalData[StaffResponse](t, w)
	if got.ImageURL == nil || *got.ImageURL != "/uploads/pictures/ivan.jpg" {
		t.Errorf("image_url = %v", got.ImageURL)
	}
	if got.Role == nil || *got.Role != "Teacher" {
		t.Errorf("role changed: %v", got.Role)
	}

	w = a.do(http.MethodPut, path, a.editorToken, map[string]any{"alt_text": "x"})
	expectStatus(t, w, http.StatusUnprocessableEntity)

	w = a.do(http.MethodDelete, path, a.editorToken, nil)
	expectStatus(t, w, http.StatusOK)
	got = unmarshalData[StaffResponse](t, w)
	if got.ImageURL != nil || got.ImageAltText != nil {
		t.Errorf("image not cleared: %v %v", got.ImageURL, got.ImageAltText)
	}

	w = a.do(http.MethodDelete, "/api/staff/999/image", a.editorToken, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestPublicStaffHidesInactive(t *testing.T) {
	a := newTestAPI(t)
	createStaff(t, a, map[string]any{"name": "Active"})
	hidden := createStaff(t, a, map[string]any{"name": "Retired", "is_active": false})

	w := a.do(http.MethodGet, "/api/staff", "", nil)
	items, _ := unmarshalList[StaffResponse](t, w)
	if len(items) != 1 || items[0].Name != "Active" {
		t.Errorf("public staff = %+v", items)
	}

	w = a.do(http.MethodGet, "/api/staff/"+itoa(hidden.ID), "", nil)
	expectStatus(t, w, http.StatusNotFound)
}
