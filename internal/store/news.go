// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const newsColumns = `id, title_bg, title_en, excerpt_bg, excerpt_en, content_bg, content_en,
	featured_image_url, featured_image_alt_bg, featured_image_alt_en,
	is_published, is_featured, published_date, created_by, created_at, updated_at`

func scanNews(row rowScanner) (News, error) {
	var n News
	err := row.Scan(&n.ID, &n.TitleBg, &n.TitleEn, &n.ExcerptBg, &n.ExcerptEn, &n.ContentBg, &n.ContentEn,
		&n.FeaturedImageURL, &n.FeaturedImageAltBg, &n.FeaturedImageAltEn,
		&n.IsPublished, &n.IsFeatured, &n.PublishedDate, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

type CreateNewsParams struct {
	TitleBg            sql.NullString
	TitleEn            sql.NullString
	ExcerptBg          sql.NullString
	ExcerptEn          sql.NullString
	ContentBg          sql.NullString
	ContentEn          sql.NullString
	FeaturedImageURL   sql.NullString
	FeaturedImageAltBg sql.NullString
	FeaturedImageAltEn sql.NullString
	IsPublished        bool
	IsFeatured         bool
	PublishedDate      time.Time
	CreatedBy          sql.NullInt64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	id, err := q.insertID(ctx, `INSERT INTO news
		(title_bg, title_en, excerpt_bg, excerpt_en, content_bg, content_en,
		 featured_image_url, featured_image_alt_bg, featured_image_alt_en,
		 is_published, is_featured, published_date, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.TitleBg, arg.TitleEn, arg.ExcerptBg, arg.ExcerptEn, arg.ContentBg, arg.ContentEn,
		arg.FeaturedImageURL, arg.FeaturedImageAltBg, arg.FeaturedImageAltEn,
		arg.IsPublished, arg.IsFeatured, dbTime(arg.PublishedDate), arg.CreatedBy,
		dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return News{}, err
	}
	return q.GetNews(ctx, id)
}

func (q *Queries) GetNews(ctx context.Context, id int64) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id))
}

func (q *Queries) GetPublishedNews(ctx context.Context, id int64) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE id = ? AND is_published = 1`, id))
}

// ListNews returns news newest first. A non-positive limit returns every row.
func (q *Queries) ListNews(ctx context.Context, publishedOnly, featuredOnly bool, limit int64) ([]News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE 1 = 1`
	if publishedOnly {
		query += ` AND is_published = 1`
	}
	if featuredOnly {
		query += ` AND is_featured = 1`
	}
	query += ` ORDER BY is_featured DESC, published_date DESC, id DESC`

	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNews)
}

type UpdateNewsParams struct {
	ID                 int64
	TitleBg            sql.NullString
	TitleEn            sql.NullString
	ExcerptBg          sql.NullString
	ExcerptEn          sql.NullString
	ContentBg          sql.NullString
	ContentEn          sql.NullString
	FeaturedImageURL   sql.NullString
	FeaturedImageAltBg sql.NullString
	FeaturedImageAltEn sql.NullString
	IsPublished        bool
	IsFeatured         bool
	PublishedDate      time.Time
	UpdatedAt          time.Time
}

func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE news
		SET title_bg = ?, title_en = ?, excerpt_bg = ?, excerpt_en = ?, content_bg = ?, content_en = ?,
		    featured_image_url = ?, featured_image_alt_bg = ?, featured_image_alt_en = ?,
		    is_published = ?, is_featured = ?, published_date = ?, updated_at = ?
		WHERE id = ?`,
		arg.TitleBg, arg.TitleEn, arg.ExcerptBg, arg.ExcerptEn, arg.ContentBg, arg.ContentEn,
		arg.FeaturedImageURL, arg.FeaturedImageAltBg, arg.FeaturedImageAltEn,
		arg.IsPublished, arg.IsFeatured, dbTime(arg.PublishedDate), dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return News{}, err
	}
	return q.GetNews(ctx, arg.ID)
}

func (q *Queries) DeleteNews(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM news WHERE id = ?`, id)
}

const newsAttachmentColumns = `id, news_id, filename, original_name, url, file_path, mime_type, file_size, created_at`

func scanNewsAttachment(row rowScanner) (NewsAttachment, error) {
	var a NewsAttachment
	err := row.Scan(&a.ID, &a.NewsID, &a.Filename, &a.OriginalName, &a.URL, &a.FilePath,
		&a.MimeType, &a.FileSize, &a.CreatedAt)
	return a, err
}

type CreateNewsAttachmentParams struct {
	NewsID       int64
	Filename     string
	OriginalName string
	URL          string
	FilePath     string
	MimeType     string
	FileSize     int64
	CreatedAt    time.Time
}

func (q *Queries) CreateNewsAttachment(ctx context.Context, arg CreateNewsAttachmentParams) (NewsAttachment, error) {
	id, err := q.insertID(ctx, `INSERT INTO news_attachments
		(news_id, filename, original_name, url, file_path, mime_type, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.NewsID, arg.Filename, arg.OriginalName, arg.URL, arg.FilePath, arg.MimeType, arg.FileSize,
		dbTime(arg.CreatedAt))
	if err != nil {
		return NewsAttachment{}, err
	}
	return q.GetNewsAttachment(ctx, id)
}

func (q *Queries) GetNewsAttachment(ctx context.Context, id int64) (NewsAttachment, error) {
	return scanNewsAttachment(q.db.QueryRowContext(ctx,
		`SELECT `+newsAttachmentColumns+` FROM news_attachments WHERE id = ?`, id))
}

func (q *Queries) ListNewsAttachments(ctx context.Context, newsID int64) ([]NewsAttachment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsAttachmentColumns+` FROM news_attachments WHERE news_id = ? ORDER BY id`, newsID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNewsAttachment)
}

func (q *Queries) DeleteNewsAttachment(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM news_attachments WHERE id = ?`, id)
}

func (q *Queries) DeleteNewsAttachments(ctx context.Context, newsID int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM news_attachments WHERE news_id = ?`, newsID)
}
