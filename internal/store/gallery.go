package store

import (
	"context"
	"database/sql"
	"time"
)

const galleryColumns = `id, title_bg, title_en, description_bg, description_en, image_url,
	image_alt_bg, image_alt_en, display_order, is_published, created_at, updated_at`

func scanGalleryImage(row rowScanner) (GalleryImage, error) {
	var g GalleryImage
	err := row.Scan(&g.ID, &g.TitleBg, &g.TitleEn, &g.DescriptionBg, &g.DescriptionEn, &g.ImageURL,
		&g.ImageAltBg, &g.ImageAltEn, &g.DisplayOrder, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func (q *Queries) ListGalleryImages(ctx context.Context, publishedOnly bool) ([]GalleryImage, error) {
	query := `SELECT ` + galleryColumns + ` FROM gallery_images`
	if publishedOnly {
		query += ` WHERE is_published = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY display_order ASC, created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGalleryImage)
}

func (q *Queries) GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error) {
	return scanGalleryImage(q.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = ?`, id))
}

type GalleryImageParams struct {
	ID            int64
	TitleBg       sql.NullString
	TitleEn       sql.NullString
	DescriptionBg sql.NullString
	DescriptionEn sql.NullString
	ImageURL      string
	ImageAltBg    sql.NullString
	ImageAltEn    sql.NullString
	DisplayOrder  int64
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateGalleryImage(ctx context.Context, arg GalleryImageParams) (GalleryImage, error) {
	id, err := q.insertID(ctx, `INSERT INTO gallery_images
		(title_bg, title_en, description_bg, description_en, image_url, image_alt_bg, image_alt_en,
		 display_order, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.TitleBg, arg.TitleEn, arg.DescriptionBg, arg.DescriptionEn, arg.ImageURL,
		arg.ImageAltBg, arg.ImageAltEn, arg.DisplayOrder, arg.IsPublished,
		dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return GalleryImage{}, err
	}
	return q.GetGalleryImage(ctx, id)
}

func (q *Queries) UpdateGalleryImage(ctx context.Context, arg GalleryImageParams) (GalleryImage, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE gallery_images
		SET title_bg = ?, title_en = ?, description_bg = ?, description_en = ?, image_url = ?,
		    image_alt_bg = ?, image_alt_en = ?, display_order = ?, is_published = ?, updated_at = ?
		WHERE id = ?`,
		arg.TitleBg, arg.TitleEn, arg.DescriptionBg, arg.DescriptionEn, arg.ImageURL,
		arg.ImageAltBg, arg.ImageAltEn, arg.DisplayOrder, arg.IsPublished, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return GalleryImage{}, err
	}
	return q.GetGalleryImage(ctx, arg.ID)
}

func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM gallery_images WHERE id = ?`, id)
}
