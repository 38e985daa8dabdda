// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, slug, parent_id, title_bg, title_en, content_bg, content_en,
	position, is_active, show_in_menu, created_at, updated_at`

func scanPage(row rowScanner) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Slug, &p.ParentID, &p.TitleBg, &p.TitleEn, &p.ContentBg, &p.ContentEn,
		&p.Position, &p.IsActive, &p.ShowInMenu, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type CreatePageParams struct {
	ID         string
	Slug       string
	ParentID   sql.NullString
	TitleBg    sql.NullString
	TitleEn    sql.NullString
	ContentBg  sql.NullString
	ContentEn  sql.NullString
	Position   int64
	IsActive   bool
	ShowInMenu bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	_, err := q.db.ExecContext(ctx, `INSERT INTO pages
		(id, slug, parent_id, title_bg, title_en, content_bg, content_en,
		 position, is_active, show_in_menu, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.Slug, arg.ParentID, arg.TitleBg, arg.TitleEn, arg.ContentBg, arg.ContentEn,
		arg.Position, arg.IsActive, arg.ShowInMenu, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return Page{}, err
	}
	return q.GetPageByID(ctx, arg.ID)
}

func (q *Queries) GetPageByID(ctx context.Context, id string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
}

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug))
}

// SlugExists reports whether slug is taken by a page other than excludeID.
func (q *Queries) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

func (q *Queries) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPage)
}

func (q *Queries) ListActivePages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPage)
}

// ListMenuPages returns active pages flagged for the header menu.
func (q *Queries) ListMenuPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE is_active = 1 AND show_in_menu = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPage)
}

type UpdatePageParams struct {
	ID         string
	Slug       string
	ParentID   sql.NullString
	TitleBg    sql.NullString
	TitleEn    sql.NullString
	ContentBg  sql.NullString
	ContentEn  sql.NullString
	Position   int64
	IsActive   bool
	ShowInMenu bool
	UpdatedAt  time.Time
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE pages
		SET slug = ?, parent_id = ?, title_bg = ?, title_en = ?, content_bg = ?, content_en = ?,
		    position = ?, is_active = ?, show_in_menu = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.ParentID, arg.TitleBg, arg.TitleEn, arg.ContentBg, arg.ContentEn,
		arg.Position, arg.IsActive, arg.ShowInMenu, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return Page{}, err
	}
	return q.GetPageByID(ctx, arg.ID)
}

// ClearPageParent detaches the children of id.
func (q *Queries) ClearPageParent(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE pages SET parent_id = NULL WHERE parent_id = ?`, id)
	return err
}

func (q *Queries) DeletePage(ctx context.Context, id string) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM pages WHERE id = ?`, id)
}
