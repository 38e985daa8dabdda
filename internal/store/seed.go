// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nukgsz/schoolsite/internal/auth"
	"github.com/nukgsz/schoolsite/internal/model"
)

// DefaultAdminUsername is used when SeedOptions leaves the username empty.
const DefaultAdminUsername = "admin"

// SeedOptions controls the initial admin account.
type SeedOptions struct {
	AdminUsername string
	// AdminPassword is generated and logged once when empty.
	AdminPassword string
}

// Seed creates initial data in the database. Every step inserts only what
// is missing, so it is safe to run on each start.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	queries := New(db)
	now := time.Now()

	if err := seedAdmin(ctx, queries, opts, now); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	if err := seedSections(ctx, queries, HistorySections, defaultHistorySections, now); err != nil {
		return fmt.Errorf("seeding history sections: %w", err)
	}
	if err := seedSections(ctx, queries, PatronSections, defaultPatronSections, now); err != nil {
		return fmt.Errorf("seeding patron sections: %w", err)
	}
	if err := seedUsefulLinks(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding useful links: %w", err)
	}
	if err := seedNavigation(ctx, queries, now); err != nil {
		return fmt.Errorf("seeding navigation: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, opts SeedOptions, now time.Time) error {
	count, err := queries.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("users already exist, skipping admin seed")
		return nil
	}

	username := opts.AdminUsername
	if username == "" {
		username = DefaultAdminUsername
	}
	password := opts.AdminPassword
	generated := password == ""
	if generated {
		if password, err = randomPassword(); err != nil {
			return err
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		FullName:     sql.NullString{String: "Administrator", Valid: true},
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	if generated {
		slog.Warn("created admin user with a generated password, change it after first login",
			"id", user.ID, "username", user.Username, "password", password)
	} else {
		slog.Info("created admin user", "id", user.ID, "username", user.Username)
	}
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type sectionSeed struct {
	key       string
	titleBg   string
	titleEn   string
	contentBg string
	contentEn string
	position  int64
}

var defaultHistorySections = []sectionSeed{
	{
		key:       "history-intro",
		titleBg:   "История на училището",
		titleEn:   "School History",
		contentBg: "Нашето училище има богата история и традиции в образованието.",
		contentEn: "Our school has a rich history and tradition in education.",
		position:  1,
	},
	{
		key:       "history-mission",
		titleBg:   "Мисия",
		titleEn:   "Mission",
		contentBg: "Да възпитаваме отговорни граждани с любов към знанието и родината.",
		contentEn: "To educate responsible citizens with love for knowledge and homeland.",
		position:  2,
	},
}

var defaultPatronSections = []sectionSeed{
	{
		key:       "patron-intro",
		titleBg:   "Патронът на училището",
		titleEn:   "The School Patron",
		contentBg: "Училището носи името на своя патрон и пази паметта за неговото дело.",
		contentEn: "The school bears the name of its patron and honours the memory of his work.",
		position:  1,
	},
}

func seedSections(ctx context.Context, queries *Queries, table SectionTable, seeds []sectionSeed, now time.Time) error {
	for _, s := range seeds {
		_, err := queries.GetSectionByKey(ctx, table, s.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := queries.CreateSection(ctx, table, SectionParams{
			SectionKey: s.key,
			TitleBg:    sql.NullString{String: s.titleBg, Valid: true},
			TitleEn:    sql.NullString{String: s.titleEn, Valid: true},
			ContentBg:  sql.NullString{String: s.contentBg, Valid: true},
			ContentEn:  sql.NullString{String: s.contentEn, Valid: true},
			Position:   s.position,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("creating section %q: %w", s.key, err)
		}
		slog.Info("seeded section", "table", table, "key", s.key)
	}
	return nil
}

type linkSeed struct {
	key     string
	titleBg string
	titleEn string
	descBg  string
	descEn  string
	url     string
	ctaBg   string
	ctaEn   string
}

var defaultUsefulLinks = []linkSeed{
	{"mon", "Министерство на образованието и науката", "Ministry of Education and Science",
		"Официална информация за образователната система.", "Official information about the education system.",
		"https://www.mon.bg/", "Към сайта", "Visit site"},
	{"ruo-stara-zagora", "РУО Стара Загора", "Regional Education Office Stara Zagora",
		"Регионално управление на образованието.", "Regional administration of education.",
		"https://ruo-sz.bg/", "Към сайта", "Visit site"},
	{"e-services", "Електронни услуги", "E-services",
		"Електронни услуги в образованието.", "Electronic services in education.",
		"https://www.e-edu.bg/", "Отвори", "Open"},
	{"inspection", "Национален инспекторат", "National Inspectorate",
		"Инспектиране на училищата.", "School inspection.",
		"https://www.mon.bg/bg/100909", "Научи повече", "Learn more"},
	{"child-protection", "Закрила на детето", "Child Protection",
		"Държавна агенция за закрила на детето.", "State Agency for Child Protection.",
		"https://sacp.government.bg/", "Научи повече", "Learn more"},
	{"safe-internet", "Безопасен интернет", "Safe Internet",
		"Национален център за безопасен интернет.", "National Safer Internet Centre.",
		"https://www.safenet.bg/", "Научи повече", "Learn more"},
}

func seedUsefulLinks(ctx context.Context, queries *Queries, now time.Time) error {
	existing, err := queries.ListUsefulLinks(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i, l := range defaultUsefulLinks {
		if _, err := queries.CreateUsefulLink(ctx, UsefulLinkParams{
			LinkKey:       sql.NullString{String: l.key, Valid: true},
			TitleBg:       sql.NullString{String: l.titleBg, Valid: true},
			TitleEn:       sql.NullString{String: l.titleEn, Valid: true},
			DescriptionBg: sql.NullString{String: l.descBg, Valid: true},
			DescriptionEn: sql.NullString{String: l.descEn, Valid: true},
			URL:           l.url,
			CtaBg:         sql.NullString{String: l.ctaBg, Valid: true},
			CtaEn:         sql.NullString{String: l.ctaEn, Valid: true},
			Position:      int64(i + 1),
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return fmt.Errorf("creating link %q: %w", l.key, err)
		}
	}
	slog.Info("seeded useful links", "count", len(defaultUsefulLinks))
	return nil
}

// seedNavigation writes DefaultNavigation when the menu table is empty.
func seedNavigation(ctx context.Context, queries *Queries, now time.Time) error {
	count, err := queries.CountNavigationMenuItems(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var insert func(items []NavSeed, parent sql.NullString) (int, error)
	insert = func(items []NavSeed, parent sql.NullString) (int, error) {
		n := 0
		for _, item := range items {
			if _, err := queries.CreateNavigationMenuItem(ctx, NavigationMenuItemParams{
				ID:        item.ID,
				TitleBg:   item.TitleBg,
				TitleEn:   sql.NullString{String: item.TitleEn, Valid: item.TitleEn != ""},
				Path:      item.Path,
				ParentID:  parent,
				Position:  item.Position,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return n, fmt.Errorf("creating menu item %q: %w", item.ID, err)
			}
			n++
			c, err := insert(item.Children, sql.NullString{String: item.ID, Valid: true})
			n += c
			if err != nil {
				return n, err
			}
		}
		return n, nil
	}

	n, err := insert(DefaultNavigation, sql.NullString{})
	if err != nil {
		return err
	}
	slog.Info("seeded navigation menu", "items", n)
	return nil
}
