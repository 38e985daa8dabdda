package store

import (
	"context"
	"database/sql"
	"time"
)

const contentColumns = `content_key, title_bg, title_en, value_bg, value_en, position, is_active, created_at, updated_at`

func scanContentSection(row rowScanner) (ContentSection, error) {
	var c ContentSection
	err := row.Scan(&c.Key, &c.TitleBg, &c.TitleEn, &c.ValueBg, &c.ValueEn, &c.Position, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) ListContentSections(ctx context.Context, activeOnly bool) ([]ContentSection, error) {
	query := `SELECT ` + contentColumns + ` FROM content_sections`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY position, content_key`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanContentSection)
}

func (q *Queries) GetContentSection(ctx context.Context, key string) (ContentSection, error) {
	return scanContentSection(q.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content_sections WHERE content_key = ?`, key))
}

type ContentSectionParams struct {
	Key       string
	TitleBg   sql.NullString
	TitleEn   sql.NullString
	ValueBg   sql.NullString
	ValueEn   sql.NullString
	Position  int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateContentSection(ctx context.Context, arg ContentSectionParams) (ContentSection, error) {
	_, err := q.db.ExecContext(ctx, `INSERT INTO content_sections
		(content_key, title_bg, title_en, value_bg, value_en, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Key, arg.TitleBg, arg.TitleEn, arg.ValueBg, arg.ValueEn, arg.Position, arg.IsActive,
		dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return ContentSection{}, err
	}
	return q.GetContentSection(ctx, arg.Key)
}

func (q *Queries) UpdateContentSection(ctx context.Context, arg ContentSectionParams) (ContentSection, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE content_sections
		SET title_bg = ?, title_en = ?, value_bg = ?, value_en = ?, position = ?, is_active = ?, updated_at = ?
		WHERE content_key = ?`,
		arg.TitleBg, arg.TitleEn, arg.ValueBg, arg.ValueEn, arg.Position, arg.IsActive,
		dbTime(arg.UpdatedAt), arg.Key)
	if err != nil {
		return ContentSection{}, err
	}
	return q.GetContentSection(ctx, arg.Key)
}

func (q *Queries) DeleteContentSection(ctx context.Context, key string) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM content_sections WHERE content_key = ?`, key)
}
