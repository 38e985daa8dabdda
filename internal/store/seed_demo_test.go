// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"testing"

	"github.com/nukgsz/schoolsite/internal/auth"
)

func TestSeed(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	opts := SeedOptions{AdminUsername: "director", AdminPassword: "s3cret-Passw0rd"}
	if err := Seed(ctx, db, opts); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := q.GetUserByUsername(ctx, "director")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("admin.Role = %q, want admin", admin.Role)
	}
	ok, err := auth.CheckPassword("s3cret-Passw0rd", admin.PasswordHash)
	if err != nil || !ok {
		t.Errorf("seeded password does not verify: %v", err)
	}

	history, err := q.ListSections(ctx, HistorySections, true)
	if err != nil {
		t.Fatalf("ListSections(history): %v", err)
	}
	if len(history) != 2 || history[0].SectionKey != "history-intro" || history[1].SectionKey != "history-mission" {
		t.Errorf("history sections = %+v", history)
	}

	patron, err := q.ListSections(ctx, PatronSections, true)
	if err != nil {
		t.Fatalf("ListSections(patron): %v", err)
	}
	if len(patron) == 0 {
		t.Error("no patron sections seeded")
	}

	links, err := q.ListUsefulLinks(ctx, true)
	if err != nil {
		t.Fatalf("ListUsefulLinks: %v", err)
	}
	if len(links) != len(defaultUsefulLinks) {
		t.Errorf("links = %d, want %d", len(links), len(defaultUsefulLinks))
	}

	items, err := q.ListNavigationMenuItems(ctx)
	if err != nil {
		t.Fatalf("ListNavigationMenuItems: %v", err)
	}
	if len(items) != countNav(DefaultNavigation) {
		t.Errorf("menu items = %d, want %d", len(items), countNav(DefaultNavigation))
	}
	history0, err := q.GetNavigationMenuItem(ctx, "school-history")
	if err != nil {
		t.Fatalf("GetNavigationMenuItem: %v", err)
	}
	if history0.ParentID.String != "school" {
		t.Errorf("school-history parent = %q, want school", history0.ParentID.String)
	}
}

func countNav(items []NavSeed) int {
	n := 0
	for _, item := range items {
		n += 1 + countNav(item.Children)
	}
	return n
}

func TestSeed_Idempotent(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db, SeedOptions{}); err != nil {
			t.Fatalf("Seed run %d: %v", i+1, err)
		}
	}

	users, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if users != 1 {
		t.Errorf("users = %d, want 1", users)
	}
	if _, err := q.GetUserByUsername(ctx, DefaultAdminUsername); err != nil {
		t.Errorf("default admin missing: %v", err)
	}

	sections, err := q.ListSections(ctx, HistorySections, false)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 2 {
		t.Errorf("history sections = %d, want 2", len(sections))
	}
}

func TestSeedDemo(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	if err := Seed(ctx, db, SeedOptions{AdminPassword: "admin-Passw0rd"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := SeedDemo(ctx, db); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}

	editor, err := q.GetUserByUsername(ctx, DemoEditorUsername)
	if err != nil {
		t.Fatalf("GetUserByUsername(%s): %v", DemoEditorUsername, err)
	}
	if editor.Role != "editor" {
		t.Errorf("editor.Role = %q, want editor", editor.Role)
	}

	pages, err := q.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != len(getDemoPages()) {
		t.Errorf("pages = %d, want %d", len(pages), len(getDemoPages()))
	}

	news, err := q.ListNews(ctx, true, false, 0)
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	if len(news) == 0 || !news[0].IsFeatured {
		t.Errorf("expected featured demo news first, got %+v", news)
	}

	events, err := q.ListEvents(ctx, EventFilter{ActiveOnly: true, Locale: "en"})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("en events = %d, want 1", len(events))
	}

	// Second run leaves existing content alone.
	if err := SeedDemo(ctx, db); err != nil {
		t.Fatalf("SeedDemo second run: %v", err)
	}
	again, err := q.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(again) != len(pages) {
		t.Errorf("pages after rerun = %d, want %d", len(again), len(pages))
	}
}
