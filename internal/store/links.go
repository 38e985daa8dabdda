package store

import (
	"context"
	"database/sql"
	"time"
)

const usefulLinkColumns = `id, link_key, title_bg, title_en, description_bg, description_en, url,
	cta_bg, cta_en, position, is_active, created_at, updated_at`

func scanUsefulLink(row rowScanner) (UsefulLink, error) {
	var l UsefulLink
	err := row.Scan(&l.ID, &l.LinkKey, &l.TitleBg, &l.TitleEn, &l.DescriptionBg, &l.DescriptionEn, &l.URL,
		&l.CtaBg, &l.CtaEn, &l.Position, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (q *Queries) ListUsefulLinks(ctx context.Context, activeOnly bool) ([]UsefulLink, error) {
	query := `SELECT ` + usefulLinkColumns + ` FROM useful_links`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUsefulLink)
}

func (q *Queries) GetUsefulLink(ctx context.Context, id int64) (UsefulLink, error) {
	return scanUsefulLink(q.db.QueryRowContext(ctx,
		`SELECT `+usefulLinkColumns+` FROM useful_links WHERE id = ?`, id))
}

// LinkKeyExists reports whether key is used by a link other than excludeID.
func (q *Queries) LinkKeyExists(ctx context.Context, key string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM useful_links WHERE link_key = ? AND id <> ?`, key, excludeID).Scan(&n)
	return n > 0, err
}

type UsefulLinkParams struct {
	ID            int64
	LinkKey       sql.NullString
	TitleBg       sql.NullString
	TitleEn       sql.NullString
	DescriptionBg sql.NullString
	DescriptionEn sql.NullString
	URL           string
	CtaBg         sql.NullString
	CtaEn         sql.NullString
	Position      int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateUsefulLink(ctx context.Context, arg UsefulLinkParams) (UsefulLink, error) {
	id, err := q.insertID(ctx, `INSERT INTO useful_links
		(link_key, title_bg, title_en, description_bg, description_en, url, cta_bg, cta_en,
		 position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.LinkKey, arg.TitleBg, arg.TitleEn, arg.DescriptionBg, arg.DescriptionEn, arg.URL,
		arg.CtaBg, arg.CtaEn, arg.Position, arg.IsActive, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return UsefulLink{}, err
	}
	return q.GetUsefulLink(ctx, id)
}

func (q *Queries) UpdateUsefulLink(ctx context.Context, arg UsefulLinkParams) (UsefulLink, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE useful_links
		SET link_key = ?, title_bg = ?, title_en = ?, description_bg = ?, description_en = ?, url = ?,
		    cta_bg = ?, cta_en = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.LinkKey, arg.TitleBg, arg.TitleEn, arg.DescriptionBg, arg.DescriptionEn, arg.URL,
		arg.CtaBg, arg.CtaEn, arg.Position, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return UsefulLink{}, err
	}
	return q.GetUsefulLink(ctx, arg.ID)
}

func (q *Queries) DeleteUsefulLink(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM useful_links WHERE id = ?`, id)
}
