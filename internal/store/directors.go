package store

import (
	"context"
	"database/sql"
	"time"
)

const directorColumns = `id, name, tenure_start, tenure_end, description, image_url,
	position, is_active, created_at, updated_at`

func scanDirector(row rowScanner) (Director, error) {
	var d Director
	err := row.Scan(&d.ID, &d.Name, &d.TenureStart, &d.TenureEnd, &d.Description, &d.ImageURL,
		&d.Position, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (q *Queries) ListDirectors(ctx context.Context, activeOnly bool) ([]Director, error) {
	query := `SELECT ` + directorColumns + ` FROM directors`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDirector)
}

func (q *Queries) GetDirector(ctx context.Context, id int64) (Director, error) {
	return scanDirector(q.db.QueryRowContext(ctx,
		`SELECT `+directorColumns+` FROM directors WHERE id = ?`, id))
}

type DirectorParams struct {
	ID          int64
	Name        string
	TenureStart sql.NullString
	TenureEnd   sql.NullString
	Description sql.NullString
	ImageURL    sql.NullString
	Position    int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateDirector(ctx context.Context, arg DirectorParams) (Director, error) {
	id, err := q.insertID(ctx, `INSERT INTO directors
		(name, tenure_start, tenure_end, description, image_url, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.TenureStart, arg.TenureEnd, arg.Description, arg.ImageURL,
		arg.Position, arg.IsActive, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return Director{}, err
	}
	return q.GetDirector(ctx, id)
}

func (q *Queries) UpdateDirector(ctx context.Context, arg DirectorParams) (Director, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE directors
		SET name = ?, tenure_start = ?, tenure_end = ?, description = ?, image_url = ?,
		    position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.TenureStart, arg.TenureEnd, arg.Description, arg.ImageURL,
		arg.Position, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return Director{}, err
	}
	return q.GetDirector(ctx, arg.ID)
}

func (q *Queries) DeleteDirector(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM directors WHERE id = ?`, id)
}
