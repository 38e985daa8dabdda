// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/model"
)

// Demo mode credentials
const (
	DemoEditorUsername = "editor"
	DemoEditorPassword = "demo1234demo"
)

// SeedDemo fills an empty site with sample content so the frontend has
// something to render. It runs after Seed when demo mode is enabled.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	slog.Info("seeding demo content")
	queries := New(db)
	now := time.Now()

	if err := seedDemoEditor(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding demo editor: %w", err)
	}
	if err := seedDemoPages(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding demo pages: %w", err)
	}
	if err := seedDemoNews(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding demo news: %w", err)
	}
	if err := seedDemoEvents(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding demo events: %w", err)
	}

	slog.Info("demo content seeded successfully")
	return nil
}

func seedDemoEditor(ctx context.Context, queries *Queries, now time.Time) error {
	if _, err := queries.GetUserByUsername(ctx, DemoEditorUsername); err == nil {
		slog.Info("demo editor already exists, skipping")
		return nil
	}

	hash, err := auth.HashPassword(DemoEditorPassword)
	if err != nil {
		return fmt.Errorf("hashing editor password: %w", err)
	}

	_, err = queries.CreateUser(ctx, CreateUserParams{
		Username:     DemoEditorUsername,
		PasswordHash: hash,
		FullName:     sql.NullString{String: "Demo Editor", Valid: true},
		Role:         model.RoleEditor,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	slog.Info("created demo editor", "username", DemoEditorUsername, "password", DemoEditorPassword)
	return nil
}

type demoPage struct {
	ID        string
	ParentID  string
	TitleBg   string
	TitleEn   string
	ContentBg string
	ContentEn string
}

func getDemoPages() []demoPage {
	return []demoPage{
		{
			ID:        "about",
			TitleBg:   "За нас",
			TitleEn:   "About Us",
			ContentBg: "<p>Добре дошли на сайта на нашето училище.</p>",
			ContentEn: "<p>Welcome to the website of our school.</p>",
		},
		{
			ID:        "admission",
			TitleBg:   "Прием",
			TitleEn:   "Admission",
			ContentBg: "<p>Информация за прием на ученици.</p>",
			ContentEn: "<p>Information about student admission.</p>",
		},
		{
			ID:        "admission-schedule",
			ParentID:  "admission",
			TitleBg:   "График за прием",
			TitleEn:   "Admission Schedule",
			ContentBg: "<p>Срокове и етапи на приема.</p>",
		},
	}
}

func seedDemoPages(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.ListPages(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("pages already exist, skipping demo pages")
		return nil
	}

	pages := getDemoPages()
	for i, p := range pages {
		if _, err := queries.CreatePage(ctx, CreatePageParams{
			ID:         p.ID,
			Slug:       p.ID,
			ParentID:   sql.NullString{String: p.ParentID, Valid: p.ParentID != ""},
			TitleBg:    sql.NullString{String: p.TitleBg, Valid: p.TitleBg != ""},
			TitleEn:    sql.NullString{String: p.TitleEn, Valid: p.TitleEn != ""},
			ContentBg:  sql.NullString{String: p.ContentBg, Valid: p.ContentBg != ""},
			ContentEn:  sql.NullString{String: p.ContentEn, Valid: p.ContentEn != ""},
			Position:   int64(i + 1),
			IsActive:   true,
			ShowInMenu: p.ParentID == "",
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("creating page %s: %w", p.ID, err)
		}
	}

	slog.Info("seeded demo pages", "count", len(pages))
	return nil
}

func seedDemoNews(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.ListNews(ctx, false, false, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("news already exist, skipping demo news")
		return nil
	}

	articles := []struct {
		titleBg, titleEn     string
		contentBg, contentEn string
		featured             bool
	}{
		{"Начало на учебната година", "Start of the School Year",
			"<p>Тържествено откриване на новата учебна година.</p>",
			"<p>Festive opening of the new school year.</p>", true},
		{"Ден на народните будители", "National Awakeners Day",
			"<p>Ученици подготвиха празнична програма.</p>", "", false},
	}

	for i, a := range articles {
		published := now.Add(-time.Duration(len(articles)-i) * 24 * time.Hour)
		if _, err := queries.CreateNews(ctx, CreateNewsParams{
			TitleBg:       sql.NullString{String: a.titleBg, Valid: true},
			TitleEn:       sql.NullString{String: a.titleEn, Valid: a.titleEn != ""},
			ContentBg:     sql.NullString{String: a.contentBg, Valid: true},
			ContentEn:     sql.NullString{String: a.contentEn, Valid: a.contentEn != ""},
			IsPublished:   true,
			IsFeatured:    a.featured,
			PublishedDate: published,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return fmt.Errorf("creating news %q: %w", a.titleBg, err)
		}
	}

	slog.Info("seeded demo news", "count", len(articles))
	return nil
}

func seedDemoEvents(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.ListEvents(ctx, EventFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("events already exist, skipping demo events")
		return nil
	}

	events := []struct {
		title     string
		offset    int
		start     string
		eventType string
		locale    string
	}{
		{"Родителска среща", 7, "18:00", model.EventTypeMeeting, "bg"},
		{"Parent-teacher meeting", 7, "18:00", model.EventTypeMeeting, "en"},
		{"Коледен концерт", 30, "17:30", model.EventTypeExtracurricular, "bg"},
	}

	for _, e := range events {
		if _, err := queries.CreateEvent(ctx, CreateEventParams{
			Title:     e.title,
			EventDate: now.AddDate(0, 0, e.offset).Format(model.DateLayout),
			StartTime: sql.NullString{String: e.start, Valid: true},
			EventType: e.eventType,
			Locale:    e.locale,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating event %q: %w", e.title, err)
		}
	}

	slog.Info("seeded demo events", "count", len(events))
	return nil
}
