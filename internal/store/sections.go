package store

import (
	"context"
	"database/sql"
	"time"
)

// SectionTable names one of the keyed long-form section tables.
type SectionTable string

const (
	HistorySections SectionTable = "history_sections"
	PatronSections  SectionTable = "patron_sections"
)

const sectionColumns = `id, section_key, title_bg, title_en, content_bg, content_en, image_url,
	position, is_active, created_at, updated_at`

func scanSection(row rowScanner) (Section, error) {
	var s Section
	err := row.Scan(&s.ID, &s.SectionKey, &s.TitleBg, &s.TitleEn, &s.ContentBg, &s.ContentEn,
		&s.ImageURL, &s.Position, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) ListSections(ctx context.Context, table SectionTable, activeOnly bool) ([]Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM ` + string(table)
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSection)
}

func (q *Queries) GetSection(ctx context.Context, table SectionTable, id int64) (Section, error) {
	return scanSection(q.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM `+string(table)+` WHERE id = ?`, id))
}

func (q *Queries) GetSectionByKey(ctx context.Context, table SectionTable, key string) (Section, error) {
	return scanSection(q.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM `+string(table)+` WHERE section_key = ?`, key))
}

// SectionKeyExists reports whether key is used by a section other than excludeID.
func (q *Queries) SectionKeyExists(ctx context.Context, table SectionTable, key string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+string(table)+` WHERE section_key = ? AND id <> ?`, key, excludeID).Scan(&n)
	return n > 0, err
}

type SectionParams struct {
	ID         int64
	SectionKey string
	TitleBg    sql.NullString
	TitleEn    sql.NullString
	ContentBg  sql.NullString
	ContentEn  sql.NullString
	ImageURL   sql.NullString
	Position   int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateSection(ctx context.Context, table SectionTable, arg SectionParams) (Section, error) {
	id, err := q.insertID(ctx, `INSERT INTO `+string(table)+`
		(section_key, title_bg, title_en, content_bg, content_en, image_url,
		 position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.SectionKey, arg.TitleBg, arg.TitleEn, arg.ContentBg, arg.ContentEn, arg.ImageURL,
		arg.Position, arg.IsActive, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return Section{}, err
	}
	return q.GetSection(ctx, table, id)
}

func (q *Queries) UpdateSection(ctx context.Context, table SectionTable, arg SectionParams) (Section, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE `+string(table)+`
		SET section_key = ?, title_bg = ?, title_en = ?, content_bg = ?, content_en = ?,
		    image_url = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.SectionKey, arg.TitleBg, arg.TitleEn, arg.ContentBg, arg.ContentEn,
		arg.ImageURL, arg.Position, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return Section{}, err
	}
	return q.GetSection(ctx, table, arg.ID)
}

func (q *Queries) DeleteSection(ctx context.Context, table SectionTable, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM `+string(table)+` WHERE id = ?`, id)
}
