// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "school-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(DriverSQLite, dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db, DriverSQLite); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
	}

	return db, cleanup
}

func testSetup(t *testing.T) (*sql.DB, func(), context.Context, *Queries) {
	t.Helper()
	db, cleanup := testDB(t)
	return db, cleanup, context.Background(), New(db)
}

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestMigrationFiles(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverMySQL} {
		files, err := MigrationFiles(driver)
		if err != nil {
			t.Fatalf("MigrationFiles(%s): %v", driver, err)
		}
		if len(files) == 0 {
			t.Errorf("MigrationFiles(%s) is empty", driver)
		}
	}
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	if _, err := NewDB("postgres", "x"); err == nil {
		t.Fatal("NewDB(postgres) error = nil, want error")
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got, err := normalizeMySQLDSN("school:pw@tcp(db:3306)/school")
	if err != nil {
		t.Fatalf("normalizeMySQLDSN: %v", err)
	}
	for _, want := range []string{"parseTime=true", "charset=utf8mb4", "collation=utf8mb4_unicode_ci"} {
		if !strings.Contains(got, want) {
			t.Errorf("normalized DSN %q does not contain %q", got, want)
		}
	}
}

func TestCreateUser(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Username:     "editor1",
		Email:        ns("editor1@example.com"),
		PasswordHash: "hashed-password",
		FullName:     ns("Test User"),
		Role:         "editor",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Username != "editor1" {
		t.Errorf("Username = %q, want %q", user.Username, "editor1")
	}
	if user.Role != "editor" {
		t.Errorf("Role = %q, want %q", user.Role, "editor")
	}
	if !user.IsActive {
		t.Error("IsActive = false, want true")
	}

	found, err := q.GetUserByUsername(ctx, "editor1")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("ID = %d, want %d", found.ID, user.ID)
	}

	_, err = q.CreateUser(ctx, CreateUserParams{
		Username: "editor1", PasswordHash: "x", Role: "editor", CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Error("duplicate username accepted")
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	_, err := q.GetUserByUsername(ctx, "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestAuthTokens(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	user, err := q.CreateUser(ctx, CreateUserParams{
		Username: "u", PasswordHash: "h", Role: "admin", IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for _, tok := range []struct {
		hash string
		exp  time.Time
	}{
		{"live-1", now.Add(time.Hour)},
		{"live-2", now.Add(2 * time.Hour)},
		{"expired", now.Add(-time.Minute)},
	} {
		if _, err := q.CreateAuthToken(ctx, CreateAuthTokenParams{
			UserID: user.ID, TokenHash: tok.hash, ExpiresAt: tok.exp, CreatedAt: now,
		}); err != nil {
			t.Fatalf("CreateAuthToken(%s): %v", tok.hash, err)
		}
	}

	if _, err := q.GetValidAuthToken(ctx, "live-1", now); err != nil {
		t.Errorf("GetValidAuthToken(live-1): %v", err)
	}
	if _, err := q.GetValidAuthToken(ctx, "expired", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetValidAuthToken(expired) err = %v, want sql.ErrNoRows", err)
	}

	purged, err := q.DeleteExpiredAuthTokens(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredAuthTokens: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	revoked, err := q.DeleteUserAuthTokensExcept(ctx, user.ID, "live-1")
	if err != nil {
		t.Fatalf("DeleteUserAuthTokensExcept: %v", err)
	}
	if revoked != 1 {
		t.Errorf("revoked = %d, want 1", revoked)
	}
	if _, err := q.GetValidAuthToken(ctx, "live-2", now); !errors.Is(err, sql.ErrNoRows) {
		t.Error("live-2 should have been revoked")
	}

	n, err := q.DeleteAuthTokenByHash(ctx, "live-1")
	if err != nil || n != 1 {
		t.Errorf("DeleteAuthTokenByHash = %d, %v; want 1, nil", n, err)
	}
}

func TestPages(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	create := func(id string, pos int64, menu, active bool) {
		t.Helper()
		if _, err := q.CreatePage(ctx, CreatePageParams{
			ID: id, Slug: id, TitleBg: ns("Страница " + id), Position: pos,
			IsActive: active, ShowInMenu: menu, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreatePage(%s): %v", id, err)
		}
	}
	create("contacts", 2, true, true)
	create("about", 1, true, true)
	create("hidden", 3, false, true)
	create("draft", 4, true, false)

	menu, err := q.ListMenuPages(ctx)
	if err != nil {
		t.Fatalf("ListMenuPages: %v", err)
	}
	if len(menu) != 2 || menu[0].ID != "about" || menu[1].ID != "contacts" {
		t.Errorf("ListMenuPages = %v, want [about contacts]", pageIDs(menu))
	}

	exists, err := q.SlugExists(ctx, "about", "")
	if err != nil || !exists {
		t.Errorf("SlugExists(about) = %v, %v; want true", exists, err)
	}
	exists, err = q.SlugExists(ctx, "about", "about")
	if err != nil || exists {
		t.Errorf("SlugExists(about, exclude about) = %v, %v; want false", exists, err)
	}

	bySlug, err := q.GetPageBySlug(ctx, "contacts")
	if err != nil {
		t.Fatalf("GetPageBySlug: %v", err)
	}
	if bySlug.TitleBg.String != "Страница contacts" {
		t.Errorf("TitleBg = %q", bySlug.TitleBg.String)
	}
}

func pageIDs(pages []Page) []string {
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}

func TestListNews_Ordering(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	mk := func(title string, published, featured bool, age time.Duration) int64 {
		t.Helper()
		n, err := q.CreateNews(ctx, CreateNewsParams{
			TitleBg: ns(title), IsPublished: published, IsFeatured: featured,
			PublishedDate: now.Add(-age), CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateNews(%s): %v", title, err)
		}
		return n.ID
	}
	older := mk("older", true, false, 48*time.Hour)
	newer := mk("newer", true, false, time.Hour)
	featured := mk("featured", true, true, 72*time.Hour)
	mk("draft", false, false, 0)

	list, err := q.ListNews(ctx, true, false, 0)
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	want := []int64{featured, newer, older}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d].ID = %d, want %d", i, list[i].ID, id)
		}
	}

	limited, err := q.ListNews(ctx, true, false, 1)
	if err != nil {
		t.Fatalf("ListNews(limit): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited len = %d, want 1", len(limited))
	}

	all, err := q.ListNews(ctx, false, false, 0)
	if err != nil {
		t.Fatalf("ListNews(all): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all len = %d, want 4", len(all))
	}
}

func TestNewsAttachments(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	news, err := q.CreateNews(ctx, CreateNewsParams{
		TitleBg: ns("Новина"), IsPublished: true, PublishedDate: now, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateNews: %v", err)
	}

	att, err := q.CreateNewsAttachment(ctx, CreateNewsAttachmentParams{
		NewsID: news.ID, Filename: "news_1_a.pdf", OriginalName: "Заповед.pdf",
		URL: "/documents/news_1_a.pdf", FilePath: "documents/news_1_a.pdf",
		MimeType: "application/pdf", FileSize: 1024, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateNewsAttachment: %v", err)
	}
	if att.OriginalName != "Заповед.pdf" {
		t.Errorf("OriginalName = %q", att.OriginalName)
	}

	list, err := q.ListNewsAttachments(ctx, news.ID)
	if err != nil {
		t.Fatalf("ListNewsAttachments: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	if n, err := q.DeleteNewsAttachments(ctx, news.ID); err != nil || n != 1 {
		t.Errorf("DeleteNewsAttachments = %d, %v", n, err)
	}
}

func TestListEvents_Filters(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	mk := func(title, date, start, typ, locale string, active bool) {
		t.Helper()
		if _, err := q.CreateEvent(ctx, CreateEventParams{
			Title: title, EventDate: date, StartTime: ns(start), EventType: typ, Locale: locale,
			IsActive: active, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateEvent(%s): %v", title, err)
		}
	}
	mk("b", "2025-03-10", "14:00", "meeting", "bg", true)
	mk("a", "2025-03-10", "09:00", "academic", "bg", true)
	mk("c", "2025-04-01", "", "holiday", "en", true)
	mk("d", "2025-05-01", "", "other", "bg", false)

	all, err := q.ListEvents(ctx, EventFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if got := eventTitles(all); got != "abc" {
		t.Errorf("order = %q, want %q", got, "abc")
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   string
	}{
		{"locale", EventFilter{ActiveOnly: true, Locale: "en"}, "c"},
		{"type", EventFilter{ActiveOnly: true, Type: "meeting"}, "b"},
		{"from inclusive", EventFilter{ActiveOnly: true, From: "2025-04-01"}, "c"},
		{"to inclusive", EventFilter{ActiveOnly: true, To: "2025-03-10"}, "ab"},
		{"inactive included", EventFilter{From: "2025-05-01"}, "d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.ListEvents(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListEvents: %v", err)
			}
			if s := eventTitles(got); s != tt.want {
				t.Errorf("titles = %q, want %q", s, tt.want)
			}
		})
	}
}

func eventTitles(events []Event) string {
	s := ""
	for _, e := range events {
		s += e.Title
	}
	return s
}

func TestNextPositionAndReorder(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	next, err := q.NextPosition(ctx, AchievementsOrder)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if next != 1 {
		t.Errorf("NextPosition on empty table = %d, want 1", next)
	}

	now := time.Now()
	var ids []int64
	for i, title := range []string{"first", "second"} {
		a, err := q.CreateAchievement(ctx, AchievementParams{
			Title: title, Position: int64(i + 1), IsActive: true, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateAchievement: %v", err)
		}
		ids = append(ids, a.ID)
	}

	next, err = q.NextPosition(ctx, AchievementsOrder)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if next != 3 {
		t.Errorf("NextPosition = %d, want 3", next)
	}

	changed, err := Reorder(ctx, db, AchievementsOrder, []PositionUpdate{
		{ID: strconv.FormatInt(ids[0], 10), Position: 5},
		{ID: strconv.FormatInt(ids[1], 10), Position: 3},
		{ID: "999", Position: 1},
		{ID: "not-a-number", Position: 1},
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}

	list, err := q.ListAchievements(ctx, true)
	if err != nil {
		t.Fatalf("ListAchievements: %v", err)
	}
	if list[0].ID != ids[1] || list[1].ID != ids[0] {
		t.Errorf("order after reorder = [%d %d], want [%d %d]", list[0].ID, list[1].ID, ids[1], ids[0])
	}
}

func TestReorder_StringIDs(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	for _, key := range []string{"hero", "footer"} {
		if _, err := q.CreateContentSection(ctx, ContentSectionParams{
			Key: key, ValueBg: ns(key), IsActive: true, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateContentSection(%s): %v", key, err)
		}
	}

	if _, err := Reorder(ctx, db, ContentOrder, []PositionUpdate{
		{ID: "footer", Position: 1},
		{ID: "hero", Position: 2},
	}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	list, err := q.ListContentSections(ctx, true)
	if err != nil {
		t.Fatalf("ListContentSections: %v", err)
	}
	if list[0].Key != "footer" {
		t.Errorf("first key = %q, want footer", list[0].Key)
	}
}

func TestGalleryOrdering(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	for i, url := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		pos, err := q.NextPosition(ctx, GalleryOrder)
		if err != nil {
			t.Fatalf("NextPosition: %v", err)
		}
		if pos != int64(i+1) {
			t.Errorf("NextPosition = %d, want %d", pos, i+1)
		}
		if _, err := q.CreateGalleryImage(ctx, GalleryImageParams{
			ImageURL: url, DisplayOrder: pos, IsPublished: url != "b.jpg", CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateGalleryImage: %v", err)
		}
	}

	published, err := q.ListGalleryImages(ctx, true)
	if err != nil {
		t.Fatalf("ListGalleryImages: %v", err)
	}
	if len(published) != 2 || published[0].ImageURL != "a.jpg" || published[1].ImageURL != "c.jpg" {
		t.Errorf("published = %+v", published)
	}
}

func TestSections_KeyUniqueness(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	s, err := q.CreateSection(ctx, PatronSections, SectionParams{
		SectionKey: "biography", TitleBg: ns("Биография"), Position: 1, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}

	exists, err := q.SectionKeyExists(ctx, PatronSections, "biography", 0)
	if err != nil || !exists {
		t.Errorf("SectionKeyExists = %v, %v; want true", exists, err)
	}
	exists, err = q.SectionKeyExists(ctx, PatronSections, "biography", s.ID)
	if err != nil || exists {
		t.Errorf("SectionKeyExists(exclude self) = %v, %v; want false", exists, err)
	}
	exists, err = q.SectionKeyExists(ctx, HistorySections, "biography", 0)
	if err != nil || exists {
		t.Errorf("history table should not see patron keys")
	}
}

func TestNavigation_Reparent(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	mk := func(id, parent string) {
		t.Helper()
		if _, err := q.CreateNavigationMenuItem(ctx, NavigationMenuItemParams{
			ID: id, TitleBg: id, Path: "/" + id, ParentID: ns(parent), IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("CreateNavigationMenuItem(%s): %v", id, err)
		}
	}
	mk("root", "")
	mk("mid", "root")
	mk("leaf", "mid")

	if err := q.ReparentNavigationChildren(ctx, "mid", ns("root")); err != nil {
		t.Fatalf("ReparentNavigationChildren: %v", err)
	}
	if n, err := q.DeleteNavigationMenuItem(ctx, "mid"); err != nil || n != 1 {
		t.Fatalf("DeleteNavigationMenuItem = %d, %v", n, err)
	}

	leaf, err := q.GetNavigationMenuItem(ctx, "leaf")
	if err != nil {
		t.Fatalf("GetNavigationMenuItem: %v", err)
	}
	if leaf.ParentID.String != "root" {
		t.Errorf("leaf parent = %q, want root", leaf.ParentID.String)
	}
}

func TestMediaFiles(t *testing.T) {
	_, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	now := time.Now()
	if _, err := q.CreateMediaFile(ctx, CreateMediaFileParams{
		Filename: "abc_1.pdf", OriginalName: "План.pdf", FilePath: "documents/abc_1.pdf",
		FileType: "document", MimeType: "application/pdf", FileSize: 10, CreatedAt: now,
	}); err != nil {
		t.Fatalf("CreateMediaFile: %v", err)
	}

	files, err := q.ListMediaFilesByType(ctx, "document")
	if err != nil {
		t.Fatalf("ListMediaFilesByType: %v", err)
	}
	if len(files) != 1 || files[0].OriginalName != "План.pdf" {
		t.Errorf("files = %+v", files)
	}

	n, err := q.DeleteMediaFileByName(ctx, "document", "abc_1.pdf")
	if err != nil || n != 1 {
		t.Errorf("DeleteMediaFileByName = %d, %v", n, err)
	}
}
