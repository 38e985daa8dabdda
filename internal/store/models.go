// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64          `json:"id"`
	Username     string         `json:"username"`
	Email        sql.NullString `json:"email"`
	PasswordHash string         `json:"password_hash"`
	FullName     sql.NullString `json:"full_name"`
	Role         string         `json:"role"`
	IsActive     bool           `json:"is_active"`
	LastLogin    sql.NullTime   `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type AuthToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Page struct {
	ID         string         `json:"id"`
	Slug       string         `json:"slug"`
	ParentID   sql.NullString `json:"parent_id"`
	TitleBg    sql.NullString `json:"title_bg"`
	TitleEn    sql.NullString `json:"title_en"`
	ContentBg  sql.NullString `json:"content_bg"`
	ContentEn  sql.NullString `json:"content_en"`
	Position   int64          `json:"position"`
	IsActive   bool           `json:"is_active"`
	ShowInMenu bool           `json:"show_in_menu"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type News struct {
	ID                 int64          `json:"id"`
	TitleBg            sql.NullString `json:"title_bg"`
	TitleEn            sql.NullString `json:"title_en"`
	ExcerptBg          sql.NullString `json:"excerpt_bg"`
	ExcerptEn          sql.NullString `json:"excerpt_en"`
	ContentBg          sql.NullString `json:"content_bg"`
	ContentEn          sql.NullString `json:"content_en"`
	FeaturedImageURL   sql.NullString `json:"featured_image_url"`
	FeaturedImageAltBg sql.NullString `json:"featured_image_alt_bg"`
	FeaturedImageAltEn sql.NullString `json:"featured_image_alt_en"`
	IsPublished        bool           `json:"is_published"`
	IsFeatured         bool           `json:"is_featured"`
	PublishedDate      time.Time      `json:"published_date"`
	CreatedBy          sql.NullInt64  `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type NewsAttachment struct {
	ID           int64     `json:"id"`
	NewsID       int64     `json:"news_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	FilePath     string    `json:"file_path"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
}

type Event struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	EventDate   string         `json:"event_date"`
	StartTime   sql.NullString `json:"start_time"`
	EndTime     sql.NullString `json:"end_time"`
	EventType   string         `json:"event_type"`
	Location    sql.NullString `json:"location"`
	Locale      string         `json:"locale"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type StaffMember struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Role         sql.NullString `json:"role"`
	Department   sql.NullString `json:"department"`
	Email        sql.NullString `json:"email"`
	Phone        sql.NullString `json:"phone"`
	Bio          sql.NullString `json:"bio"`
	ImageURL     sql.NullString `json:"image_url"`
	ImageAltText sql.NullString `json:"image_alt_text"`
	SortOrder    int64          `json:"sort_order"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type GalleryImage struct {
	ID            int64          `json:"id"`
	TitleBg       sql.NullString `json:"title_bg"`
	TitleEn       sql.NullString `json:"title_en"`
	DescriptionBg sql.NullString `json:"description_bg"`
	DescriptionEn sql.NullString `json:"description_en"`
	ImageURL      string         `json:"image_url"`
	ImageAltBg    sql.NullString `json:"image_alt_bg"`
	ImageAltEn    sql.NullString `json:"image_alt_en"`
	DisplayOrder  int64          `json:"display_order"`
	IsPublished   bool           `json:"is_published"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Section is a row of history_sections or patron_sections.
type Section struct {
	ID         int64          `json:"id"`
	SectionKey string         `json:"section_key"`
	TitleBg    sql.NullString `json:"title_bg"`
	TitleEn    sql.NullString `json:"title_en"`
	ContentBg  sql.NullString `json:"content_bg"`
	ContentEn  sql.NullString `json:"content_en"`
	ImageURL   sql.NullString `json:"image_url"`
	Position   int64          `json:"position"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type Achievement struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	Year        sql.NullInt64  `json:"year"`
	Position    int64          `json:"position"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Director struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	TenureStart sql.NullString `json:"tenure_start"`
	TenureEnd   sql.NullString `json:"tenure_end"`
	Description sql.NullString `json:"description"`
	ImageURL    sql.NullString `json:"image_url"`
	Position    int64          `json:"position"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ContentSection struct {
	Key       string         `json:"key"`
	TitleBg   sql.NullString `json:"title_bg"`
	TitleEn   sql.NullString `json:"title_en"`
	ValueBg   sql.NullString `json:"value_bg"`
	ValueEn   sql.NullString `json:"value_en"`
	Position  int64          `json:"position"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type UsefulLink struct {
	ID            int64          `json:"id"`
	LinkKey       sql.NullString `json:"link_key"`
	TitleBg       sql.NullString `json:"title_bg"`
	TitleEn       sql.NullString `json:"title_en"`
	DescriptionBg sql.NullString `json:"description_bg"`
	DescriptionEn sql.NullString `json:"description_en"`
	URL           string         `json:"url"`
	CtaBg         sql.NullString `json:"cta_bg"`
	CtaEn         sql.NullString `json:"cta_en"`
	Position      int64          `json:"position"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type NavigationMenuItem struct {
	ID        string         `json:"id"`
	TitleBg   string         `json:"title_bg"`
	TitleEn   sql.NullString `json:"title_en"`
	Path      string         `json:"path"`
	ParentID  sql.NullString `json:"parent_id"`
	Position  int64          `json:"position"`
	IsActive  bool           `json:"is_active"`
	Icon      sql.NullString `json:"icon"`
	CSSClass  sql.NullString `json:"css_class"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type MediaFile struct {
	ID           int64         `json:"id"`
	Filename     string        `json:"filename"`
	OriginalName string        `json:"original_name"`
	FilePath     string        `json:"file_path"`
	FileType     string        `json:"file_type"`
	MimeType     string        `json:"mime_type"`
	FileSize     int64         `json:"file_size"`
	UploadedBy   sql.NullInt64 `json:"uploaded_by"`
	CreatedAt    time.Time     `json:"created_at"`
}
